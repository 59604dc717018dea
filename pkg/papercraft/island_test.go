package papercraft

import (
	"testing"

	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/stretchr/testify/assert"
)

func TestIslandName(t *testing.T) {
	tests := []struct {
		id   IslandID
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		isl := &Island{ID: tt.id}
		assert.Equal(t, tt.want, isl.Name(), "id %d", tt.id)
	}
}

func TestSnapshotCarriesIslandNames(t *testing.T) {
	p := newProject(t, mesh.Cube(10))
	for _, isl := range p.Snapshot().Islands {
		assert.Equal(t, (&Island{ID: isl.ID}).Name(), isl.Name)
		assert.NotEmpty(t, isl.Name)
	}
}
