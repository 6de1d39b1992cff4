package viewer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor records launches instead of spawning processes.
type fakeExecutor struct {
	known     map[string]bool
	started   [][]string
	startErr  error
	lookCalls []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	f.lookCalls = append(f.lookCalls, file)
	if f.known[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Start(name string, args ...string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, append([]string{name}, args...))
	return nil
}

func TestOpenLaunchesViewer(t *testing.T) {
	exec := &fakeExecutor{known: map[string]bool{"evince": true}}
	v := &Viewer{command: "evince", exec: exec}

	require.NoError(t, v.Open("/library/files/doc.pdf"))
	require.Len(t, exec.started, 1)
	assert.Equal(t, []string{"evince", "/library/files/doc.pdf"}, exec.started[0])
}

func TestOpenViewerNotFound(t *testing.T) {
	exec := &fakeExecutor{known: map[string]bool{}}
	v := &Viewer{command: "ghostviewer", exec: exec}

	err := v.Open("/library/files/doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghostviewer")
	assert.Empty(t, exec.started, "no launch after failed lookup")
}

func TestOpenStartFailure(t *testing.T) {
	exec := &fakeExecutor{
		known:    map[string]bool{"xdg-open": true},
		startErr: errors.New("fork failed"),
	}
	v := &Viewer{command: "xdg-open", exec: exec}

	err := v.Open("/library/files/doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fork failed")
}

func TestNewDefaultsCommand(t *testing.T) {
	v := New("")
	assert.Equal(t, DefaultCommand(), v.Command())

	v = New("zathura")
	assert.Equal(t, "zathura", v.Command())
}
