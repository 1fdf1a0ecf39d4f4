package ramulator

import "testing"

func TestNewCFRStore_Defaults(t *testing.T) {
	c := newCFRStore()

	if got := c.get(CFRBroadcast); got != 0 {
		t.Errorf("CFRBroadcast default = %d, want 0", got)
	}
	if got := c.get(CFREwmulBG); got != 1 {
		t.Errorf("CFREwmulBG default = %d, want 1", got)
	}
	if got := c.get(CFRAfm); got != 0 {
		t.Errorf("CFRAfm default = %d, want 0", got)
	}
}

func TestCFRStore_Write_UpdatesValue(t *testing.T) {
	c := newCFRStore()

	if err := c.write(int64(CFRBroadcast), 1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := c.get(CFRBroadcast); got != 1 {
		t.Errorf("CFRBroadcast after write = %d, want 1", got)
	}
}

func TestCFRStore_Write_UnmappedAddressErrors(t *testing.T) {
	c := newCFRStore()

	err := c.write(99, 1)
	if err == nil {
		t.Fatal("expected an error for an unmapped CFR address")
	}
	if !IsKind(err, KindConfiguration) {
		t.Errorf("expected a Configuration-kind error, got %v", err)
	}
}
