package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyserver/geometry"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("deleting: %w", HasDependents("asset type", 3, "assets"))

	assert.ErrorIs(t, err, ErrHasDependents)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindHasDependents, KindOf(err))
	assert.Equal(t, "has dependents: asset type 3 (assets)", errors.Unwrap(err).Error())

	details, ok := Details(err)
	assert.True(t, ok)
	assert.Equal(t, uint(3), details.ID)
	assert.Equal(t, "assets", details.Field)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{NotFound("site", 1), KindNotFound},
		{MissingReference("survey", 2, "survey_id"), KindNotFound},
		{HierarchyTooDeep(4, "parent_site_id", "parent is a sub-site"), KindHierarchyTooDeep},
		{InvalidHotspotReference(0, "asset_id", "both set"), KindInvalidHotspotReference},
		{fmt.Errorf("scan: %w", geometry.ErrNotARectangle), KindNotARectangle},
		{geometry.ErrGeometryKind, KindGeometryKind},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), tt.err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	err := ConstraintViolation("survey", 0, "is_latest", errors.New("site 5 already has a latest survey"))
	assert.Equal(t, "constraint violation: survey (is_latest): site 5 already has a latest survey", err.Error())
	assert.Equal(t, "too_large", KindTooLarge.String())
}
