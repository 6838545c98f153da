package core

import (
	"testing"

	"sprintpulse/testutil"
)

func TestStoreDoesNotDependOnCLI(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".", testutil.PresentationImportForbidden, "the store is driven by collaborators, not the other way round")
}
