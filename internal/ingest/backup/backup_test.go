package backup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const dumpJSON = `[
  {"skinName":"Swan Princess","skinSeries":"MAGIC","hero":{"heroId":142}},
  {"skinName":"Classic","hero":{"heroId":142}},
  {"skinName":"Shadow Step","skinSeries":"FUTURE ERA","hero":{"heroId":101}},
  {"skinName":"Orphaned","hero":{}}
]`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skins.json")
	require.NoError(t, os.WriteFile(path, []byte(dumpJSON), 0o644))

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, "Swan Princess", records[0].SkinName)
	require.Equal(t, 142, records[0].Hero.HeroID)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, dumpJSON)
	}))
	t.Cleanup(srv.Close)

	records, err := FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, records, 4)
}

func TestNormalize(t *testing.T) {
	records, err := LoadFile(writeDump(t))
	require.NoError(t, err)

	heroes := Normalize(records)

	// Sorted by hero id, the record with no id dropped.
	require.Len(t, heroes, 2)
	require.Equal(t, 101, heroes[0].HeroID)
	require.Equal(t, 142, heroes[1].HeroID)
	require.Len(t, heroes[1].Skins, 2)

	// The dump only knows skins; identity stays empty.
	require.Empty(t, heroes[1].Name)
}

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skins.json")
	require.NoError(t, os.WriteFile(path, []byte(dumpJSON), 0o644))
	return path
}
