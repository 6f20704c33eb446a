package region

// Timestamp returns the application-defined timestamp stored for slot
// (x,z), or 0 if the slot is empty. A pending override (set via SetChunk)
// is consulted before the on-disk state.
func (r *Region) Timestamp(x, z uint8) (uint32, error) {
	i, err := slotIndex(x, z)
	if err != nil {
		return 0, err
	}
	if ov, ok := r.overrides[i]; ok {
		if ov.clear {
			return 0, nil
		}
		if ov.hasTS {
			return ov.timestamp, nil
		}
		return r.slots[i].timestamp, nil
	}
	return r.slots[i].timestamp, nil
}

// Length returns the compressed payload length stored for slot (x,z), or
// 0 if empty.
func (r *Region) Length(x, z uint8) (uint32, error) {
	i, err := slotIndex(x, z)
	if err != nil {
		return 0, err
	}
	if ov, ok := r.overrides[i]; ok {
		if ov.clear {
			return 0, nil
		}
		return uint32(len(ov.payload)), nil
	}
	if r.slots[i].empty {
		return 0, nil
	}
	return uint32(len(r.slots[i].payload)), nil
}

// Compression returns the compression kind stored for slot (x,z).
func (r *Region) Compression(x, z uint8) (Compression, error) {
	i, err := slotIndex(x, z)
	if err != nil {
		return Unknown, err
	}
	if ov, ok := r.overrides[i]; ok {
		if ov.clear {
			return Unknown, nil
		}
		return ov.compression, nil
	}
	if r.slots[i].empty {
		return Unknown, nil
	}
	return r.slots[i].compression, nil
}

// ContainsChunk reports whether slot (x,z) holds data, defined as
// timestamp != 0 for legacy-compatibility reasons: a slot whose location
// entry is non-empty but whose timestamp is zero is not considered to
// "contain" a chunk by this predicate.
func (r *Region) ContainsChunk(x, z uint8) (bool, error) {
	ts, err := r.Timestamp(x, z)
	if err != nil {
		return false, err
	}
	return ts != 0, nil
}

// Data returns a borrowed view of the compressed payload bytes for slot
// (x,z), or nil if the slot is empty. If the slot has a pending write
// staged since Open, the staged buffer is returned; otherwise the view is
// into the region's in-memory copy of the file, valid until the next
// Flush or Close.
func (r *Region) Data(x, z uint8) ([]byte, error) {
	i, err := slotIndex(x, z)
	if err != nil {
		return nil, err
	}
	if ov, ok := r.overrides[i]; ok {
		if ov.clear {
			return nil, nil
		}
		return ov.payload, nil
	}
	if r.slots[i].empty {
		return nil, nil
	}
	return r.slots[i].payload, nil
}

// SetChunk stages a pending write for slot (x,z). payload must remain
// valid until the next Flush; the engine does not copy it. If ts is
// omitted the engine supplies the current wall-clock time at Flush.
func (r *Region) SetChunk(x, z uint8, payload []byte, compression Compression, ts ...uint32) error {
	if !r.writable {
		return ErrReadOnly
	}
	i, err := slotIndex(x, z)
	if err != nil {
		return err
	}
	ov := &override{payload: payload, compression: compression}
	if len(ts) > 0 {
		ov.hasTS = true
		ov.timestamp = ts[0]
	}
	r.overrides[i] = ov
	return nil
}

// ClearChunk stages slot (x,z) to be emptied on the next Flush.
func (r *Region) ClearChunk(x, z uint8) error {
	if !r.writable {
		return ErrReadOnly
	}
	i, err := slotIndex(x, z)
	if err != nil {
		return err
	}
	r.overrides[i] = &override{clear: true}
	return nil
}
