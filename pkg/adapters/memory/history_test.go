package memory_test

import (
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/ports"
)

func TestMemoryHistory_Contract(t *testing.T) {
	ports.RunHistoryStoreContract(t, memory.NewHistory())
}
