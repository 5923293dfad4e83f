package diff

// Classify compares original with updated and classifies every record.
// It is a pure function of its inputs: Meta.ComparedAt is left zero and no
// logging happens here. The only error is a configuration error.
func Classify(original, updated Dataset, primaryKeys, commonHeaders []string, opts Options) (*Result, error) {
	origIdx, err := BuildIndex(original, primaryKeys)
	if err != nil {
		return nil, err
	}
	updIdx, err := BuildIndex(updated, primaryKeys)
	if err != nil {
		return nil, err
	}

	if opts.StrictKeys {
		if origIdx.Duplicates != nil {
			return nil, &DuplicateKeyError{Dataset: original.Name, Keys: origIdx.Duplicates}
		}
		if updIdx.Duplicates != nil {
			return nil, &DuplicateKeyError{Dataset: updated.Name, Keys: updIdx.Duplicates}
		}
	}

	result := newResult(original, updated, primaryKeys, commonHeaders, opts)
	result.Meta.OriginalDuplicates = origIdx.Duplicates
	result.Meta.UpdatedDuplicates = updIdx.Duplicates

	for _, key := range origIdx.Order {
		row1, pos1, _ := origIdx.Lookup(key)

		row2, pos2, found := updIdx.Lookup(key)
		if !found {
			result.FoundStatus.NotFound++
			result.Removed = append(result.Removed, KeyedRecord{Key: key, Data: row1, Position: pos1})
			continue
		}

		result.FoundStatus.Found++
		changes := CompareRows(row1, row2, commonHeaders, opts)

		switch {
		case len(changes) > 0:
			result.StatusMatch.Changed++
			result.Modified = append(result.Modified, ModifiedRecord{
				Key:              key,
				Original:         row1,
				Updated:          row2,
				Changes:          changes,
				OriginalPosition: pos1,
				UpdatedPosition:  pos2,
			})
			for _, c := range changes {
				result.ColumnChanges[c.Column]++
			}

		case pos1 != pos2 && opts.TreatReorderAsSame:
			result.StatusMatch.Matched++
			result.Moved = append(result.Moved, MovedRecord{
				Key:              key,
				Data:             row1,
				OriginalPosition: pos1,
				UpdatedPosition:  pos2,
			})

		case pos1 != pos2:
			result.StatusMatch.Changed++
			result.Modified = append(result.Modified, ModifiedRecord{
				Key:      key,
				Original: row1,
				Updated:  row2,
				Changes: []Change{{
					Column:   PositionColumn,
					OldValue: Int(int64(pos1)),
					NewValue: Int(int64(pos2)),
				}},
				OriginalPosition: pos1,
				UpdatedPosition:  pos2,
			})

		default:
			result.StatusMatch.Matched++
			result.Unchanged = append(result.Unchanged, KeyedRecord{Key: key, Data: row1, Position: pos1})
		}
	}

	for _, key := range updIdx.Order {
		if _, ok := origIdx.Records[key]; ok {
			continue
		}
		row2, pos2, _ := updIdx.Lookup(key)
		result.Added = append(result.Added, KeyedRecord{Key: key, Data: row2, Position: pos2})
	}

	return result, nil
}

func newResult(original, updated Dataset, primaryKeys, commonHeaders []string, opts Options) *Result {
	headers := make([]string, len(commonHeaders))
	copy(headers, commonHeaders)
	keys := make([]string, len(primaryKeys))
	copy(keys, primaryKeys)

	columnChanges := make(map[string]int, len(headers))
	for _, h := range headers {
		columnChanges[h] = 0
	}

	return &Result{
		Unchanged:     []KeyedRecord{},
		Modified:      []ModifiedRecord{},
		Added:         []KeyedRecord{},
		Removed:       []KeyedRecord{},
		Moved:         []MovedRecord{},
		ColumnChanges: columnChanges,
		Headers:       headers,
		Meta: Meta{
			File1Name:        original.Name,
			File2Name:        updated.Name,
			PrimaryKeys:      keys,
			Options:          opts,
			OriginalRowCount: original.Len(),
			UpdatedRowCount:  updated.Len(),
		},
	}
}
