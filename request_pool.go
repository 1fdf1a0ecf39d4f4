package ramulator

import "sync"

// requestPool recycles *Request values used as short-lived per-channel
// commands, avoiding an allocation on every fan-out emission. Adapted from
// the teacher's size-bucketed byte-buffer pool: a Request is fixed-size,
// so one pool bucket suffices where the teacher needed several.
var requestPool = sync.Pool{
	New: func() any { return &Request{} },
}

// getPooledRequest returns a zeroed *Request ready to be populated by
// Clone's caller.
func getPooledRequest() *Request {
	r := requestPool.Get().(*Request)
	*r = Request{}
	return r
}

// putPooledRequest returns cmd to the pool once its callback has fired;
// called from receiveCallback after a command's completion has been
// delivered to Receive, since nothing retains a reference to a completed
// per-channel command afterward.
func putPooledRequest(cmd *Request) {
	if cmd == nil {
		return
	}
	requestPool.Put(cmd)
}
