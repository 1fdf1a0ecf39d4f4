package ramulator

// decodeHead implements Phase 3 (spec §4.4): peek the queue head and
// decode it by type, emitting zero or more per-channel commands. It sets
// ms.headFullyDispatched to reflect whether everything it emitted (if
// anything) was accepted by its controller this tick.
func (ms *MemorySystem) decodeHead() error {
	head := ms.queue[0]
	ms.headFullyDispatched = true

	switch head.Type {
	case TypeAIM:
		return ms.decodeAIM(head)
	case TypeRead:
		return ms.decodeRead(head)
	case TypeWrite:
		return ms.decodeWrite(head)
	default:
		return NewConfigurationError("memorysystem", "decode", "unknown request type")
	}
}

func (ms *MemorySystem) decodeAIM(head *Request) error {
	switch head.Opcode {
	case ISR_WR_AFLUT:
		return NewConfigurationError("memorysystem", "decode", "ISR_WR_AFLUT is not supported")
	case ISR_EWADD:
		// No commands emitted; Phase 4 pops on the same tick.
		return nil
	case ISR_EOC:
		return ms.emitEndOfCompute(head)
	}

	desc, ok := lookupISR(head.Opcode)
	if !ok {
		ms.logger.Warn("dropping unknown AiM opcode", "opcode", int(head.Opcode))
		return nil
	}
	return ms.emitISRFanout(head, head.Opcode, desc)
}

// emitISRFanout implements the compute/data-movement ISR fan-out (spec
// §4.4 bullet 1): validate single-channel opcodes, populate CFR-derived
// fields, and emit opsize x popcount(mask) commands in column-major,
// ascending-channel order (spec §5's ordering guarantee; this takes
// precedence over §8 scenario 3's by-channel grouping of the same result
// set, since it is the order the original source actually produces).
func (ms *MemorySystem) emitISRFanout(head *Request, opcode Opcode, desc isrDescriptor) error {
	if desc.channelCountEqOne && popcount(head.ChannelMask) != 1 {
		return NewConfigurationError("memorysystem", "decode", "opcode requires exactly one channel in the mask")
	}

	broadcast := 0
	var ewmulBG, afm int64
	switch opcode {
	case ISR_MAC_SBK:
		broadcast = int(ms.cfr.get(CFRBroadcast))
	case ISR_MAC_ABK:
		broadcast = int(ms.cfr.get(CFRBroadcast))
		ewmulBG = ms.cfr.get(CFREwmulBG)
	case ISR_AF:
		afm = ms.cfr.get(CFRAfm)
	}

	iters := head.OpSize
	if iters == -1 {
		iters = 1
	}
	if iters < 1 {
		iters = 1
	}

	allAccepted := true
	for i := 0; i < iters; i++ {
		channels, err := channelIndices(head.ChannelMask)
		if err != nil {
			return err
		}
		for _, ch := range channels {
			if ch >= ms.channelCount() {
				return NewConfigurationError("memorysystem", "decode", "channel index exceeds configured channel count")
			}
			cmd := head.Clone()
			cmd.Opcode = opcode
			cmd.HostReqID = head.HostReqID
			cmd.AiMReqID = nextAiMReqID()

			if !desc.isFieldLegal(FieldBankIndex) {
				cmd.BankIndex = -1
			}
			if desc.isFieldLegal(FieldColAddr) {
				cmd.ColAddr = head.ColAddr + int64(i)
			} else {
				cmd.ColAddr = 0
			}
			if !desc.isFieldLegal(FieldRowAddr) {
				cmd.RowAddr = 0
			}
			if opcode == ISR_AF {
				cmd.AFM = afm
				cmd.RowAddr = (int64(1) << 29) + afm
			}
			if desc.isFieldLegal(FieldBroadcast) {
				cmd.Broadcast = broadcast
			}
			if desc.isFieldLegal(FieldEwmulBG) {
				cmd.EwmulBG = ewmulBG
			}

			applyAddrMapping(cmd, ch)
			// Only blocking commands route completion back through
			// Receive; a non-blocking command's actual controller-side
			// completion is irrelevant to host-queue popping (Phase 4
			// already pops it once accepted).
			if desc.blocking {
				cmd.Callback = ms.receiveCallback()
				ms.stalledAiMRequests++
			} else {
				cmd.Callback = nil
			}
			if !ms.controllers[ch].Send(cmd) {
				ms.overflow[ch].push(cmd)
				ms.observer.ObserveReject(ch)
				allAccepted = false
			}
		}
	}
	ms.headFullyDispatched = allAccepted
	return nil
}

// emitEndOfCompute implements ISR_EOC: one blocking command to every
// configured channel, regardless of the request's channel mask.
func (ms *MemorySystem) emitEndOfCompute(head *Request) error {
	allAccepted := true
	for ch := 0; ch < ms.channelCount(); ch++ {
		cmd := head.Clone()
		cmd.Opcode = ISR_EOC
		cmd.HostReqID = head.HostReqID
		cmd.AiMReqID = nextAiMReqID()
		applyAddrMapping(cmd, ch)
		cmd.Callback = ms.receiveCallback()

		ms.stalledAiMRequests++
		if !ms.controllers[ch].Send(cmd) {
			ms.overflow[ch].push(cmd)
			ms.observer.ObserveReject(ch)
			allAccepted = false
		}
	}
	ms.headFullyDispatched = allAccepted
	return nil
}

// decodeRead implements the Read path of Phase 3. For MEM, channel_mask is
// reinterpreted as a raw channel index rather than a one-hot mask (spec §9
// open question); the host is expected to have set it accordingly.
func (ms *MemorySystem) decodeRead(head *Request) error {
	switch head.Region {
	case RegionCFR, RegionGPR:
		return nil
	case RegionMEM:
		ch := head.ChannelMask
		if ch < 0 || ch >= ms.channelCount() {
			return NewConfigurationError("memorysystem", "decode", "MEM read channel index out of range")
		}
		cmd := head.Clone()
		cmd.HostReqID = head.HostReqID
		cmd.AiMReqID = nextAiMReqID()
		applyAddrMapping(cmd, ch)
		cmd.Callback = ms.receiveCallback()

		ms.stalledAiMRequests++
		ms.observer.ObserveWaitStall()
		if !ms.controllers[ch].Send(cmd) {
			ms.overflow[ch].push(cmd)
			ms.observer.ObserveReject(ch)
			ms.headFullyDispatched = false
			return nil
		}
		return nil
	default:
		return NewConfigurationError("memorysystem", "decode", "unknown memory access region")
	}
}

// decodeWrite implements the Write path of Phase 3.
func (ms *MemorySystem) decodeWrite(head *Request) error {
	switch head.Region {
	case RegionCFR:
		return ms.cfr.write(head.Addr, head.Data)
	case RegionGPR:
		return nil
	case RegionMEM:
		ch := head.ChannelMask
		if ch < 0 || ch >= ms.channelCount() {
			return NewConfigurationError("memorysystem", "decode", "MEM write channel index out of range")
		}
		cmd := head.Clone()
		cmd.HostReqID = head.HostReqID
		cmd.AiMReqID = nextAiMReqID()
		applyAddrMapping(cmd, ch)
		// Non-blocking: no callback. Phase 4 pops the host request once
		// this command is accepted, without waiting for it to retire.
		cmd.Callback = nil

		if !ms.controllers[ch].Send(cmd) {
			ms.overflow[ch].push(cmd)
			ms.observer.ObserveReject(ch)
			ms.headFullyDispatched = false
		}
		return nil
	default:
		return NewConfigurationError("memorysystem", "decode", "unknown memory access region")
	}
}

// receiveCallback returns a Callback that routes a command's completion
// back through this memory system's Receive entry point, redirecting it
// away from the host (spec §3: "callback ... rewritten by the decoder so
// controllers notify the memory system, not the host").
func (ms *MemorySystem) receiveCallback() Callback {
	return func(cmd *Request) {
		_ = ms.Receive(cmd)
		putPooledRequest(cmd)
	}
}
