package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonHeaders(t *testing.T) {
	tests := []struct {
		name     string
		original Dataset
		updated  Dataset
		want     []string
	}{
		{
			name:     "OriginalOrder",
			original: dataset("a", []string{"c", "a", "b"}, []string{"1", "2", "3"}),
			updated:  dataset("b", []string{"a", "b", "c"}, []string{"1", "2", "3"}),
			want:     []string{"c", "a", "b"},
		},
		{
			name:     "Intersection",
			original: dataset("a", []string{"id", "old"}, []string{"1", "x"}),
			updated:  dataset("b", []string{"new", "id"}, []string{"y", "1"}),
			want:     []string{"id"},
		},
		{
			name:     "EmptyDataset",
			original: Dataset{},
			updated:  dataset("b", []string{"id"}, []string{"1"}),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonHeaders(tt.original, tt.updated))
		})
	}
}

func TestCommonHeaders_FirstRecordOnly(t *testing.T) {
	original := Dataset{Records: []Record{
		StringRecord([]string{"id"}, []string{"1"}),
		StringRecord([]string{"id", "late"}, []string{"2", "x"}),
	}}
	updated := dataset("b", []string{"id", "late"}, []string{"1", "x"})

	assert.Equal(t, []string{"id"}, CommonHeaders(original, updated))
}

func TestDetectPrimaryKeys(t *testing.T) {
	t.Run("UniqueKeyLikeColumn", func(t *testing.T) {
		ds := dataset("a", []string{"name", "Customer_ID"}, []string{"A", "1"}, []string{"B", "2"})
		assert.Equal(t, []string{"Customer_ID"}, DetectPrimaryKeys(ds, ds.Headers()))
	})

	t.Run("SkipsNonUniqueCandidates", func(t *testing.T) {
		ds := dataset("a", []string{"group_code", "uuid", "v"},
			[]string{"g1", "u1", "x"},
			[]string{"g1", "u2", "y"},
		)
		assert.Equal(t, []string{"uuid"}, DetectPrimaryKeys(ds, ds.Headers()))
	})

	t.Run("FallsBackToFirstHeader", func(t *testing.T) {
		ds := dataset("a", []string{"name", "city"}, []string{"A", "X"})
		assert.Equal(t, []string{"name"}, DetectPrimaryKeys(ds, ds.Headers()))
	})

	t.Run("NoHeaders", func(t *testing.T) {
		assert.Nil(t, DetectPrimaryKeys(Dataset{}, nil))
	})
}
