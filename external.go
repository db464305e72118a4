package subtree

import "bytes"

// externalStateInlineSize is the largest serialized scanner state stored
// directly in the subtree record; longer states get their own buffer.
const externalStateInlineSize = 24

// ExternalScannerState holds the serialized state of an external scanner.
//
// Every time an external-token subtree is created after a call to an
// external scanner, the scanner's serialized state is copied onto the
// subtree so the scanner can later be restored for incremental re-lexing.
// Small states are stored inline; long ones are allocated separately.
type ExternalScannerState struct {
	shortData [externalStateInlineSize]byte
	longData  []byte
	length    uint32
}

// Init stores a copy of the given serialized state.
func (s *ExternalScannerState) Init(data []byte) {
	s.length = uint32(len(data))
	if len(data) > externalStateInlineSize {
		s.longData = make([]byte, len(data))
		copy(s.longData, data)
	} else {
		s.longData = nil
		copy(s.shortData[:], data)
	}
}

// Data returns the stored bytes regardless of storage mode.
func (s *ExternalScannerState) Data() []byte {
	if s.longData != nil {
		return s.longData
	}
	return s.shortData[:s.length]
}

// Length returns the number of stored bytes.
func (s *ExternalScannerState) Length() uint32 { return s.length }

// Eq reports whether the stored state equals the given bytes, comparing
// by length first and then by content.
func (s *ExternalScannerState) Eq(data []byte) bool {
	if s.length != uint32(len(data)) {
		return false
	}
	return bytes.Equal(s.Data(), data)
}

// Delete drops the separately-allocated buffer if one is in use.
func (s *ExternalScannerState) Delete() {
	s.longData = nil
	s.length = 0
}

// clone deep-copies the state so two subtree records never share a
// long buffer.
func (s *ExternalScannerState) clone() ExternalScannerState {
	result := *s
	if s.longData != nil {
		result.longData = make([]byte, len(s.longData))
		copy(result.longData, s.longData)
	}
	return result
}

// ExternalScannerState returns the serialized scanner state attached to
// an external-token leaf, or nil for any other subtree.
func (s Subtree) ExternalScannerState() *ExternalScannerState {
	if s.data.isInline || s.ptr == nil {
		return nil
	}
	if s.ptr.childCount > 0 || !s.ptr.hasExternalTokens {
		return nil
	}
	return &s.ptr.externalScannerState
}

// ExternalScannerStateEq reports whether two subtrees carry identical
// serialized scanner states. Subtrees without a state compare as empty.
func (s Subtree) ExternalScannerStateEq(other Subtree) bool {
	a := s.ExternalScannerState()
	b := other.ExternalScannerState()
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return b.Eq(nil)
	case b == nil:
		return a.Eq(nil)
	default:
		return a.Eq(b.Data())
	}
}

// LastExternalToken returns the rightmost external-token leaf in the
// subtree, or a null subtree if it contains none. Incremental re-lexing
// uses it to restore the scanner before the re-lexed region.
func (s Subtree) LastExternalToken() Subtree {
	if !s.HasExternalTokens() {
		return Subtree{}
	}
	for s.ptr.childCount > 0 {
		for i := int(s.ptr.childCount) - 1; i >= 0; i-- {
			child := s.ptr.children[i]
			if child.HasExternalTokens() {
				s = child
				break
			}
		}
	}
	return s
}

// SetExternalScannerState attaches serialized scanner state to an
// external-token leaf. The record must be exclusively owned.
func (m MutableSubtree) SetExternalScannerState(data []byte) {
	if m.data.isInline || m.ptr == nil {
		return
	}
	if m.ptr.childCount == 0 && m.ptr.hasExternalTokens {
		m.ptr.externalScannerState.Init(data)
	}
}

// SetHasExternalScannerStateChange flags that the scanner's state
// differed from the previous parse at this token.
func (m MutableSubtree) SetHasExternalScannerStateChange(changed bool) {
	if !m.data.isInline && m.ptr != nil {
		m.ptr.hasExternalScannerStateChange = changed
	}
}
