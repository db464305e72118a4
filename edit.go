package subtree

// InputEdit describes a single text edit: the byte and row/column extent
// of the replaced region and of its replacement.
type InputEdit struct {
	StartByte   uint32
	OldEndByte  uint32
	NewEndByte  uint32
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// editRange is an InputEdit converted to Length coordinates, relative to
// the subtree currently being processed.
type editRange struct {
	start  Length
	oldEnd Length
	newEnd Length
}

// editEntry pairs a slot holding a subtree with the edit to apply to it.
// Slots point into parent children arrays so rewrites land in place.
type editEntry struct {
	tree *Subtree
	edit editRange
}

// Edit returns a new tree value reflecting a text edit: every node whose
// span overlaps the edited region is copied-on-write, resized, and
// marked as changed; nodes after the region keep their stored lengths
// because positions are relative; nodes before it are left untouched and
// stay shared with the previous tree revision. A pure insertion at or
// beyond a subtree's end (including its lookahead) leaves the subtree
// untouched, so appends invalidate nothing.
func (s Subtree) Edit(edit InputEdit, pool *SubtreePool) Subtree {
	self := s
	stack := []editEntry{{
		tree: &self,
		edit: editRange{
			start:  Length{Bytes: edit.StartByte, Extent: edit.StartPoint},
			oldEnd: Length{Bytes: edit.OldEndByte, Extent: edit.OldEndPoint},
			newEnd: Length{Bytes: edit.NewEndByte, Extent: edit.NewEndPoint},
		},
	}}

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		edit := entry.edit
		isNoop := edit.oldEnd.Bytes == edit.start.Bytes && edit.newEnd.Bytes == edit.start.Bytes
		isPureInsertion := edit.oldEnd.Bytes == edit.start.Bytes
		invalidateFirstRow := entry.tree.DependsOnColumn()

		size := entry.tree.Size()
		padding := entry.tree.Padding()
		totalSize := padding.Add(size)
		lookaheadBytes := entry.tree.LookaheadBytes()
		endByte := totalSize.Bytes + lookaheadBytes
		if edit.start.Bytes > endByte ||
			(edit.start.Bytes == endByte && (isNoop || isPureInsertion)) {
			continue
		}

		switch {
		// The edit is entirely within the space before this subtree:
		// shift the subtree over without changing its size.
		case edit.oldEnd.Bytes <= padding.Bytes:
			padding = edit.newEnd.Add(padding.Sub(edit.oldEnd))

		// The edit starts in the space before this subtree and extends
		// into it: shrink the content to compensate.
		case edit.start.Bytes < padding.Bytes:
			size = size.Sub(edit.oldEnd.Sub(padding))
			padding = edit.newEnd

		// A pure insertion right at the start of the subtree shifts it
		// over by the inserted length.
		case edit.start.Bytes == padding.Bytes && isPureInsertion:
			padding = edit.newEnd

		// The edit is within this subtree, or is an insertion at its end
		// that the lookahead already covers: resize it.
		case edit.start.Bytes < totalSize.Bytes ||
			(edit.start.Bytes == totalSize.Bytes && isPureInsertion):
			if edit.oldEnd.Bytes <= totalSize.Bytes {
				size = edit.newEnd.Sub(padding).Add(totalSize.Sub(edit.oldEnd))
			} else {
				size = edit.newEnd.Sub(padding)
			}
		}

		result := pool.MakeMut(*entry.tree)
		if result.data.isInline {
			if canInline(padding, size, lookaheadBytes) {
				result.data.paddingBytes = uint8(padding.Bytes)
				result.data.paddingRows = uint8(padding.Extent.Row)
				result.data.paddingColumns = uint8(padding.Extent.Column)
				result.data.sizeBytes = uint8(size.Bytes)
			} else {
				// The edited geometry no longer fits the compact
				// encoding; promote the leaf to a heap record.
				data := pool.allocate()
				data.refCount = 1
				data.padding = padding
				data.size = size
				data.lookaheadBytes = lookaheadBytes
				data.symbol = Symbol(result.data.symbol)
				data.parseState = result.data.parseState
				data.visible = result.data.visible
				data.named = result.data.named
				data.extra = result.data.extra
				data.isMissing = result.data.isMissing
				data.isKeyword = result.data.isKeyword
				result = MutableSubtree{ptr: data}
			}
		} else {
			result.ptr.padding = padding
			result.ptr.size = size
		}
		result.SetHasChanges(true)
		*entry.tree = result.Subtree()

		childLeft, childRight := LengthZero(), LengthZero()
		children := result.Subtree().Children()
		for i := range children {
			child := &children[i]
			childSize := child.TotalSize()
			childLeft = childRight
			childRight = childLeft.Add(childSize)

			// Children that end before the edit are unaffected.
			if childRight.Bytes+child.LookaheadBytes() < edit.start.Bytes {
				continue
			}

			// Stop once a child starts after the edited range — unless
			// this node is column-dependent and the edit's first row has
			// not yet been passed, in which case invalidation continues
			// through the line break.
			if childLeft.Bytes > edit.oldEnd.Bytes ||
				(childLeft.Bytes == edit.oldEnd.Bytes && childSize.Bytes > 0 && i > 0) {
				if !invalidateFirstRow ||
					childLeft.Extent.Row > entry.edit.start.Extent.Row {
					break
				}
			}

			// Transpose the edit into the child's coordinate space and
			// clamp it to the child's bounds.
			childEdit := editRange{
				start:  edit.start.Sub(childLeft),
				oldEnd: edit.oldEnd.Sub(childLeft),
				newEnd: edit.newEnd.Sub(childLeft),
			}
			if edit.start.Bytes < childLeft.Bytes {
				childEdit.start = LengthZero()
			}
			if edit.oldEnd.Bytes < childLeft.Bytes {
				childEdit.oldEnd = LengthZero()
			}
			if edit.oldEnd.Bytes > childRight.Bytes {
				childEdit.oldEnd = childSize
			}
			if edit.newEnd.Bytes < childLeft.Bytes {
				childEdit.newEnd = LengthZero()
			}

			stack = append(stack, editEntry{tree: child, edit: childEdit})
		}
	}

	return self
}
