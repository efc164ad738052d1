// Package sqlite provides dependency boundary tests for the snapshot store.
package sqlite

import (
	"testing"

	"tailorbook/testutil"
)

func TestImportsAreDomainOrMemory(t *testing.T) {
	allowed := testutil.ModuleImportsExcept("tailorbook/pkg/domain", "tailorbook/internal/infra/persistence/memory")
	testutil.AssertNoDirectImports(t, ".", allowed, "sqlite store wraps the memory store")
}
