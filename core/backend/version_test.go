// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/todoapp/core/backend"
)

// TestVersion verifies that the /version endpoint reports backend.Version
func TestVersion(t *testing.T) {
	s := newTestService(t)

	version, err := s.anonym.Version()
	require.NoError(t, err)
	assert.Equal(t, "unset", version)

	backend.Version = "another version"
	defer func() { backend.Version = "unset" }()

	version, err = s.anonym.Version()
	require.NoError(t, err)
	assert.Equal(t, "another version", version)
}
