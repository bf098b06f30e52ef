package libcontainer

import (
	"os"
	"reflect"
	"strconv"
	"testing"

	"github.com/mini_container/libcontainer/configs"
	"github.com/mini_container/libcontainer/utils"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		command  string
		expected []string
	}{
		{"a  b\tc", []string{"a", "b", "c"}},
		{"/bin/echo hi", []string{"/bin/echo", "hi"}},
		{"  /bin/true  ", []string{"/bin/true"}},
		{"", nil},
		{" \t ", nil},
		// No shell quoting: quotes pass through as part of the tokens.
		{`/bin/sh -c 'echo hi'`, []string{"/bin/sh", "-c", "'echo", "hi'"}},
	}
	for _, tt := range tests {
		got := tokenize(tt.command)
		if len(got) == 0 && len(tt.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("tokenize(%q) = %v, expected %v", tt.command, got, tt.expected)
		}
	}
}

func syncPipeEnvFor(t *testing.T, fd uintptr) {
	t.Helper()
	t.Setenv(syncPipeEnv, strconv.Itoa(int(fd)))
}

func TestWaitForAgentSuccess(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	syncPipeEnvFor(t, r.Fd())
	if _, err := w.Write([]byte{1}); err != nil {
		t.Fatal(err)
	}
	if err := waitForAgent(); err != nil {
		t.Errorf("expected success token to release the container: %v", err)
	}
}

func TestWaitForAgentFailureToken(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	syncPipeEnvFor(t, r.Fd())
	if _, err := w.Write([]byte{0}); err != nil {
		t.Fatal(err)
	}
	if err := waitForAgent(); err == nil {
		t.Error("expected a false token to abort the container")
	}
}

func TestWaitForAgentEOF(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	syncPipeEnvFor(t, r.Fd())
	// Agent death before signaling is observed as EOF.
	w.Close()
	if err := waitForAgent(); err == nil {
		t.Error("expected EOF on the sync pipe to abort the container")
	}
}

func TestReadConfigRoundTrip(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	config := &configs.Config{
		Rootfs:   "/var/lib/ctr/rootfs",
		Hostname: "ctr",
		IP:       "10.0.0.2",
		Command:  "/bin/echo hi",
	}
	config.Namespaces.Add(configs.NEWNS)
	if err := utils.WriteJSON(w, config); err != nil {
		t.Fatal(err)
	}
	w.Close()
	t.Setenv(initPipeEnv, strconv.Itoa(int(r.Fd())))

	got, err := readConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, config) {
		t.Errorf("read back %+v, expected %+v", got, config)
	}
}
