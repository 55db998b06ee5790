// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/todoapp/core/api"
)

func TestValidateTimeSpan(t *testing.T) {
	assert.NoError(t, validateTimeSpan(0, 1))
	assert.Equal(t, api.ErrNegativeStartTime, validateTimeSpan(-1, 10))
	assert.Equal(t, api.ErrNegativeStartTime, validateTimeSpan(-10, -20), "the start time is checked first")
	assert.Equal(t, api.ErrNegativeDuration, validateTimeSpan(5, 5))
	assert.Equal(t, api.ErrNegativeDuration, validateTimeSpan(5, 4))
}

func TestValidateDurationEstimate(t *testing.T) {
	one, zero := int64(1), int64(0)
	assert.NoError(t, validateDurationEstimate(nil))
	assert.NoError(t, validateDurationEstimate(&one))
	assert.Equal(t, api.ErrNegativeDuration, validateDurationEstimate(&zero))
}

func TestValidateTimeUtilityFunction(t *testing.T) {
	assert.NoError(t, validateTimeUtilityFunction(nil, nil))
	assert.NoError(t, validateTimeUtilityFunction([]int64{1, 2}, []int64{3, 4}))
	assert.Equal(t, api.ErrTimeUtilityFunctionNotValid, validateTimeUtilityFunction([]int64{1}, nil))
}

func TestRequireOwner(t *testing.T) {
	type row struct{ creator int64 }
	creator := func(r row) int64 { return r.creator }
	user := api.User{UserID: 1}

	found, err := requireOwner(&row{creator: 1}, nil, creator, user, api.ErrGoalNonexistent)
	assert.NoError(t, err)
	assert.Equal(t, &row{creator: 1}, found)

	_, err = requireOwner(&row{creator: 2}, nil, creator, user, api.ErrGoalNonexistent)
	assert.Equal(t, api.ErrGoalNonexistent, err)

	_, err = requireOwner[row](nil, nil, creator, user, api.ErrGoalNonexistent)
	assert.Equal(t, api.ErrGoalNonexistent, err)

	broken := errors.New("broken")
	_, err = requireOwner[row](nil, broken, creator, user, api.ErrGoalNonexistent)
	assert.Equal(t, broken, err)
}
