package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	table := []struct {
		path   string
		remote bool
	}{
		{path: "libsql://botwise-alice.turso.io", remote: true},
		{path: "https://db.example.com", remote: true},
		{path: "http://127.0.0.1:8080", remote: true},
		{path: "wss://db.example.com", remote: true},
		{path: "ws://127.0.0.1:8080", remote: true},
		{path: ":memory:", remote: false},
		{path: "data/questions.db", remote: false},
		{path: "/var/lib/botwise/questions.db", remote: false},
		{path: "libsql.db", remote: false},
	}
	for _, row := range table {
		require.Equal(t, row.remote, isRemote(row.path), row.path)
	}
}
