package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknet/internal/entities"
)

type fakeBackend struct {
	mu       sync.Mutex
	uploads  []string
	auth     []string
	genres   []entities.Genre
	imported entities.ImportResult
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds entities.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secreto" {
			writeEnvelope(w, http.StatusUnauthorized, false, nil, "Credenciales inválidas")
			return
		}
		writeEnvelope(w, http.StatusOK, true, entities.LoginResult{
			Token: "token-" + creds.Username,
			User:  entities.User{ID: "u1", Username: creds.Username, Role: entities.UserRoleAdmin},
		}, "")
	})
	mux.HandleFunc("POST /books/import", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, false, nil, "Archivo requerido")
			return
		}
		data, _ := io.ReadAll(file)

		f.mu.Lock()
		f.uploads = append(f.uploads, string(data))
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()

		writeEnvelope(w, http.StatusOK, true, f.imported, "")
	})
	mux.HandleFunc("GET /genres", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()

		writeEnvelope(w, http.StatusOK, true, entities.Page[entities.Genre]{
			Items: f.genres,
			Total: len(f.genres),
			Limit: entities.MaxLimit,
		}, "")
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "data": data, "message": message})
}

func startBackend(t *testing.T, f *fakeBackend) string {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func strPtr(s string) *string { return &s }

func TestImportBooksCommand_ParseFlags(t *testing.T) {
	t.Run("requires file", func(t *testing.T) {
		cmd := NewImportBooksCommand()
		err := cmd.ParseFlags([]string{"-username", "admin"})
		assert.EqualError(t, err, "required flag -file not provided")
	})

	t.Run("reads flags", func(t *testing.T) {
		cmd := NewImportBooksCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "libros.json", "-backend", "http://api.local", "-dry-run"}))
		assert.Equal(t, "libros.json", cmd.FilePath)
		assert.Equal(t, "http://api.local", cmd.BackendURL)
		assert.True(t, cmd.DryRun)
	})
}

func TestImportBooksCommand_Run(t *testing.T) {
	t.Run("uploads file with token", func(t *testing.T) {
		fake := &fakeBackend{imported: entities.ImportResult{Imported: 2, Failed: 1, Errors: []string{"ISBN duplicado"}}}
		url := startBackend(t, fake)
		path := writeFile(t, "libros.json", `[{"title":"Niebla"},{"title":"Marianela"}]`)

		var out bytes.Buffer
		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url, Username: "admin", Password: "secreto"},
			FilePath:     path,
			Verbose:      true,
			Out:          &out,
		}
		require.NoError(t, cmd.Run())

		require.Len(t, fake.uploads, 1)
		assert.Equal(t, `[{"title":"Niebla"},{"title":"Marianela"}]`, fake.uploads[0])
		assert.Equal(t, []string{"Bearer token-admin"}, fake.auth)
		assert.Contains(t, out.String(), "Imported: 2")
		assert.Contains(t, out.String(), "[ERROR] ISBN duplicado")
	})

	t.Run("password from environment", func(t *testing.T) {
		t.Setenv("BOOKNET_PASSWORD", "secreto")
		fake := &fakeBackend{}
		url := startBackend(t, fake)

		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url, Username: "admin"},
			FilePath:     writeFile(t, "libros.json", `[]`),
			Out:          io.Discard,
		}
		require.NoError(t, cmd.Run())
		assert.Len(t, fake.uploads, 1)
	})

	t.Run("dry run does not upload", func(t *testing.T) {
		fake := &fakeBackend{}
		url := startBackend(t, fake)

		var out bytes.Buffer
		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url},
			FilePath:     writeFile(t, "libros.json", `[]`),
			DryRun:       true,
			Out:          &out,
		}
		require.NoError(t, cmd.Run())
		assert.Empty(t, fake.uploads)
		assert.Contains(t, out.String(), "Dry run complete")
	})

	t.Run("rejects non json file", func(t *testing.T) {
		fake := &fakeBackend{}
		url := startBackend(t, fake)

		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url},
			FilePath:     writeFile(t, "libros.csv", "title\nNiebla\n"),
			Out:          io.Discard,
		}
		err := cmd.Run()
		require.Error(t, err)
		assert.Empty(t, fake.uploads)
	})

	t.Run("rejects malformed json before upload", func(t *testing.T) {
		fake := &fakeBackend{}
		url := startBackend(t, fake)

		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url},
			FilePath:     writeFile(t, "libros.json", `[{"title":`),
			Out:          io.Discard,
		}
		require.Error(t, cmd.Run())
		assert.Empty(t, fake.uploads)
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := &ImportBooksCommand{FilePath: filepath.Join(t.TempDir(), "nada.json"), Out: io.Discard}
		err := cmd.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import file not found")
	})

	t.Run("login failure", func(t *testing.T) {
		fake := &fakeBackend{}
		url := startBackend(t, fake)

		cmd := &ImportBooksCommand{
			backendFlags: backendFlags{BackendURL: url, Username: "admin", Password: "mal"},
			FilePath:     writeFile(t, "libros.json", `[]`),
			Out:          io.Discard,
		}
		err := cmd.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "login failed")
		assert.Empty(t, fake.uploads)
	})
}

func TestCheckGenresCommand_Run(t *testing.T) {
	t.Run("healthy hierarchy", func(t *testing.T) {
		fake := &fakeBackend{genres: []entities.Genre{
			{ID: "g1", Nombre: "Narrativa"},
			{ID: "g2", Nombre: "Novela", GeneroPadre: strPtr("g1")},
		}}
		url := startBackend(t, fake)

		var out bytes.Buffer
		cmd := &CheckGenresCommand{
			backendFlags: backendFlags{BackendURL: url, Username: "admin", Password: "secreto"},
			Verbose:      true,
			Out:          &out,
		}
		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Genres: 2")
		assert.Contains(t, out.String(), "No problems found")
		assert.Equal(t, []string{"Bearer token-admin"}, fake.auth)
	})

	t.Run("reports cycles and orphans", func(t *testing.T) {
		fake := &fakeBackend{genres: []entities.Genre{
			{ID: "a", Nombre: "Poesía", GeneroPadre: strPtr("b")},
			{ID: "b", Nombre: "Lírica", GeneroPadre: strPtr("a")},
			{ID: "c", Nombre: "Teatro", GeneroPadre: strPtr("zz")},
		}}
		url := startBackend(t, fake)

		var out bytes.Buffer
		cmd := &CheckGenresCommand{backendFlags: backendFlags{BackendURL: url}, Out: &out}
		err := cmd.Run()
		assert.ErrorIs(t, err, ErrHierarchyBroken)
		assert.Contains(t, out.String(), "[CYCLE] a -> b -> a")
		assert.Contains(t, out.String(), "[ORPHAN] c")
	})
}
