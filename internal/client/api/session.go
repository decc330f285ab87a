package api

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/CS-Kiran/Manana/internal/filex"
)

// session holds the current token pair and mirrors it to a file so the user
// stays logged in across CLI runs. An empty path disables persistence.
type session struct {
	mu           sync.Mutex
	path         string
	accessToken  string
	refreshToken string
}

type sessionFile struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// newSession creates a session backed by <home>/<stateDirName>/session.json
// and loads any previously stored tokens.
func newSession(stateDirName string) (*session, error) {
	s := &session{}

	if stateDirName == "" {
		return s, nil
	}

	dir, err := filex.EnsureSubDir(stateDirName)
	if err != nil {
		return nil, err
	}
	s.path = filepath.Join(dir, "session.json")

	raw, err := filex.ReadString(s.path)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		var sf sessionFile
		// A corrupt cache is treated as a logged-out state.
		if err := json.Unmarshal([]byte(raw), &sf); err == nil {
			s.accessToken = sf.AccessToken
			s.refreshToken = sf.RefreshToken
		}
	}

	return s, nil
}

func (s *session) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *session) set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = access
	s.refreshToken = refresh

	if s.path == "" {
		return nil
	}

	b, err := json.Marshal(sessionFile{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return err
	}
	return filex.WriteString(s.path, string(b))
}

func (s *session) clear() error {
	return s.set("", "")
}

func (s *session) authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}
