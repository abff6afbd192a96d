package storage

import (
	"fmt"
	"strings"
	"testing"
)

// areaCheck fails validation on demand
type areaCheck struct {
	valid bool
}

func (s *areaCheck) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset   Asset[*areaCheck]
		expErrs []string
	}{
		"valid asset": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "whiterun-inn",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: nil,
		},
		"version not set": {
			asset: Asset[*areaCheck]{
				Version:    0,
				Identifier: "whiterun-inn",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: []string{"version must be set"},
		},
		"empty identifier": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: []string{"id must be set"},
		},
		"identifier with spaces": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "whiterun inn",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: []string{"id must be alphanumeric"},
		},
		"identifier with underscore": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "whiterun_inn",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: []string{"id must be alphanumeric"},
		},
		"identifier with special chars": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "inn@whiterun!",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: []string{"id must be alphanumeric"},
		},
		"identifier with hyphen is valid": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "riverwood-02",
				Spec:       &areaCheck{valid: true},
			},
			expErrs: nil,
		},
		"invalid spec": {
			asset: Asset[*areaCheck]{
				Version:    1,
				Identifier: "whiterun-inn",
				Spec:       &areaCheck{valid: false},
			},
			expErrs: []string{"spec is invalid"},
		},
		"multiple errors": {
			asset: Asset[*areaCheck]{
				Version:    0,
				Identifier: "",
				Spec:       &areaCheck{valid: false},
			},
			expErrs: []string{
				"version must be set",
				"id must be set",
				"spec is invalid",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Errorf("expected errors %v, got nil", tt.expErrs)
				return
			}

			errStr := err.Error()
			for _, e := range tt.expErrs {
				if !strings.Contains(errStr, e) {
					t.Errorf("error %q does not contain %q", errStr, e)
				}
			}
		})
	}
}
