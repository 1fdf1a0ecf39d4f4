package ramulator

import "testing"

func TestType_String(t *testing.T) {
	cases := map[Type]string{TypeRead: "Read", TypeWrite: "Write", TypeAIM: "AIM", Type(99): "Unknown"}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("Type(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestRegion_String(t *testing.T) {
	cases := map[Region]string{RegionGPR: "GPR", RegionCFR: "CFR", RegionMEM: "MEM", Region(99): "Unknown"}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("Region(%d).String() = %q, want %q", r, got, want)
		}
	}
}

func TestNextAiMReqID_StrictlyIncreasing(t *testing.T) {
	first := nextAiMReqID()
	second := nextAiMReqID()
	if second <= first {
		t.Errorf("nextAiMReqID not monotonic: %d then %d", first, second)
	}
}

func TestRequest_Complete_FiresCallback(t *testing.T) {
	fired := false
	r := &Request{Callback: func(*Request) { fired = true }}
	r.Complete()
	if !fired {
		t.Error("expected Complete to fire the callback")
	}
}

func TestRequest_Complete_NilCallbackIsNoOp(t *testing.T) {
	r := &Request{}
	r.Complete() // must not panic
}

func TestRequest_Clone_GetsFreshAddrVec(t *testing.T) {
	r := &Request{HostReqID: 5, AddrVec: [5]int64{1, 2, 3, 4, 5}}
	c := r.Clone()

	if c.HostReqID != r.HostReqID {
		t.Errorf("Clone HostReqID = %d, want %d", c.HostReqID, r.HostReqID)
	}
	for i, v := range c.AddrVec {
		if v != -1 {
			t.Errorf("Clone AddrVec[%d] = %d, want -1 (fresh sentinel)", i, v)
		}
	}
}

func TestApplyAddrMapping_DecomposesBankIndex(t *testing.T) {
	cmd := &Request{BankIndex: 6, RowAddr: 10, ColAddr: 20}
	applyAddrMapping(cmd, 2)

	want := [5]int64{2, 1, 2, 10, 20} // bank_group = 6/4, bank = 6%4
	if cmd.AddrVec != want {
		t.Errorf("AddrVec = %v, want %v", cmd.AddrVec, want)
	}
}

func TestApplyAddrMapping_AbsentBankIndex(t *testing.T) {
	cmd := &Request{BankIndex: -1, RowAddr: 1, ColAddr: 2}
	applyAddrMapping(cmd, 0)

	if cmd.AddrVec[1] != -1 || cmd.AddrVec[2] != -1 {
		t.Errorf("expected bank_group/bank sentinels when BankIndex is absent, got %v", cmd.AddrVec)
	}
}

func TestGetPooledRequest_ReturnsZeroedRequest(t *testing.T) {
	r := getPooledRequest()
	r.HostReqID = 42
	putPooledRequest(r)

	again := getPooledRequest()
	if again.HostReqID != 0 {
		t.Errorf("expected a zeroed Request from the pool, got HostReqID=%d", again.HostReqID)
	}
}

func TestPutPooledRequest_NilIsNoOp(t *testing.T) {
	putPooledRequest(nil) // must not panic
}
