package artist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStyles(t *testing.T) {
	tests := []struct {
		name   string
		styles []StyleChoice
		want   error
	}{
		{"one primary", []StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 2}}, nil},
		{"single style is fine here", []StyleChoice{{StyleID: 1, IsPrimary: true}}, nil},
		{"no primary", []StyleChoice{{StyleID: 1}, {StyleID: 2}}, ErrPrimaryStyleRequired},
		{"two primaries", []StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 2, IsPrimary: true}}, ErrPrimaryStyleRequired},
		{"empty", nil, ErrPrimaryStyleRequired},
		{"duplicate", []StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 1}}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStyles(tt.styles)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompleteness(t *testing.T) {
	complete := []StyleChoice{{StyleID: 1, IsPrimary: true}, {StyleID: 2}}
	assert.NoError(t, Completeness(complete, []int64{1}, []int64{3}))

	err := Completeness([]StyleChoice{{StyleID: 1, IsPrimary: true}}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProfileIncomplete))

	var inc *IncompleteError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, []string{MissingStyles, MissingServices, MissingBodyParts}, inc.Missing)

	err = Completeness([]StyleChoice{{StyleID: 1}, {StyleID: 2}}, []int64{1}, []int64{1})
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, []string{MissingPrimaryStyle}, inc.Missing)
}
