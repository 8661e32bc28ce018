package types

// ComputeLayout assigns byte offsets to every member of the struct at
// idx (and to its base-class subobjects), respecting natural alignment,
// and fills in TotalSizeBits/AlignmentBits. This is the transition from
// the "Declaration" to the "Layout" instantiation phase:
// sizeof(T) and member access both require it to have run.
//
// Layout order: base subobjects first (in declaration order), then
// declared members, matching the Itanium C++ ABI's base-before-members
// rule that the name mangler and struct-offset math both assume.
func (r *Registry) ComputeLayout(idx Index) {
	info := r.types[idx].Struct
	if info == nil {
		return
	}
	offset := 0
	maxAlign := 1

	info.BaseOffsets = info.BaseOffsets[:0]
	for _, base := range info.Bases {
		if !r.IsComplete(base) {
			r.ComputeLayout(base)
		}
		baseInfo := r.types[base].Struct
		align := alignBits(baseInfo.AlignmentBits)
		offset = alignUp(offset, align)
		info.BaseOffsets = append(info.BaseOffsets, offset)
		offset += baseInfo.TotalSizeBits / 8
		if align > maxAlign {
			maxAlign = align
		}
	}

	for i := range info.Members {
		m := &info.Members[i]
		sizeBits := m.SizeBits
		if sizeBits == 0 {
			sizeBits = memberNaturalSizeBits(r, m)
			m.SizeBits = sizeBits
		}
		align := alignBits(sizeBits)
		offset = alignUp(offset, align)
		m.ByteOffset = offset
		offset += sizeBits / 8
		if align > maxAlign {
			maxAlign = align
		}
	}

	if info.HasVTable {
		maxAlign = max(maxAlign, 8)
	}

	total := alignUp(offset, maxAlign)
	if total == 0 {
		total = 1 // empty classes still occupy one byte
	}
	info.TotalSizeBits = total * 8
	info.AlignmentBits = maxAlign * 8
	info.IsIncompleteInstantiation = false
}

func memberNaturalSizeBits(r *Registry, m *StructMember) int {
	if m.IsReference || m.PointerDepth > 0 {
		return 64
	}
	return r.SizeBits(m.Type)
}

// alignBits converts a size in bits to a natural alignment in bytes,
// capped at 16 (the widest scalar alignment this core reasons about —
// long double on SysV x86-64).
func alignBits(sizeBits int) int {
	bytes := sizeBits / 8
	switch {
	case bytes <= 1:
		return 1
	case bytes <= 2:
		return 2
	case bytes <= 4:
		return 4
	case bytes <= 8:
		return 8
	default:
		return 16
	}
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
