package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type stubConfig struct{}

func (stubConfig) GetClientID() string                      { return "507484022675603456" }
func (stubConfig) GetPollInterval() time.Duration           { return time.Second }
func (stubConfig) GetDefaultLargeKey() string               { return "logo" }
func (stubConfig) GetDefaultLargeText() domain.DefaultText  { return domain.ShowVersion() }
func (stubConfig) GetSmallAsset() domain.AssetDescriptor    { return domain.AssetDescriptor{} }
func (stubConfig) CustomAssetsEnabled() bool                { return false }
func (stubConfig) GetAlbumOverrides() domain.AlbumOverrides { return domain.AlbumOverrides{} }
func (stubConfig) GetPlayerSettings() domain.PlayerSettings { return domain.PlayerSettings{} }

// fakeDiscord answers the IPC protocol on the server end of a pipe
type fakeDiscord struct {
	t        *testing.T
	received chan map[string]any
	// reply builds the response to a command, nil means echo success
	reply func(cmd map[string]any) (uint32, any)
}

func (f *fakeDiscord) serve(conn net.Conn) {
	defer conn.Close()

	op, payload, err := readFrame(conn)
	if err != nil || op != opHandshake {
		return
	}
	var hs handshake
	if err := json.Unmarshal(payload, &hs); err != nil {
		return
	}
	f.received <- map[string]any{"v": float64(hs.V), "client_id": hs.ClientID}
	if err := writeFrame(conn, opFrame, map[string]any{"cmd": "DISPATCH", "evt": "READY"}); err != nil {
		return
	}

	for {
		op, payload, err := readFrame(conn)
		if err != nil {
			return
		}
		if op != opFrame {
			continue
		}
		var cmd map[string]any
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return
		}
		f.received <- cmd

		respOp, resp := opFrame, any(map[string]any{"cmd": cmd["cmd"], "nonce": cmd["nonce"], "evt": nil})
		if f.reply != nil {
			respOp, resp = f.reply(cmd)
		}
		if err := writeFrame(conn, respOp, resp); err != nil {
			return
		}
	}
}

func newTestClient(t *testing.T, f *fakeDiscord) (*Client, *int) {
	dials := 0
	dial := func(ctx context.Context) (net.Conn, error) {
		dials++
		client, server := net.Pipe()
		go f.serve(server)
		return client, nil
	}
	c := NewClient(zap.NewNop(), stubConfig{}, dial)
	t.Cleanup(func() { c.Close() })
	return c, &dials
}

func receive(t *testing.T, f *fakeDiscord) map[string]any {
	t.Helper()
	select {
	case msg := <-f.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for frame")
		return nil
	}
}

func TestClient_ConnectAndUpdate(t *testing.T) {
	f := &fakeDiscord{t: t, received: make(chan map[string]any, 10)}
	c, _ := newTestClient(t, f)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	hs := receive(t, f)
	if diff := cmp.Diff(map[string]any{"v": float64(1), "client_id": "507484022675603456"}, hs); diff != "" {
		t.Errorf("Handshake mismatch (-want +got):\n%s", diff)
	}

	err := c.Update(context.Background(), domain.Activity{
		Details:    "Song - Song2",
		State:      "by Artist Name",
		Start:      1699999957,
		LargeImage: "logo",
		LargeText:  "Winamp v5.666",
		SmallImage: "playbutton",
		SmallText:  "Playing",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cmd := receive(t, f)
	if cmd["cmd"] != "SET_ACTIVITY" {
		t.Errorf("Expected SET_ACTIVITY, got %v", cmd["cmd"])
	}
	if nonce, _ := cmd["nonce"].(string); nonce == "" {
		t.Error("Command should carry a nonce")
	}

	args := cmd["args"].(map[string]any)
	want := map[string]any{
		"details":    "Song - Song2",
		"state":      "by Artist Name",
		"timestamps": map[string]any{"start": float64(1699999957)},
		"assets": map[string]any{
			"large_image": "logo",
			"large_text":  "Winamp v5.666",
			"small_image": "playbutton",
			"small_text":  "Playing",
		},
	}
	if diff := cmp.Diff(want, args["activity"]); diff != "" {
		t.Errorf("Activity mismatch (-want +got):\n%s", diff)
	}
	if _, ok := args["pid"].(float64); !ok {
		t.Error("Command should carry the process id")
	}
}

func TestClient_ClearOmitsActivity(t *testing.T) {
	f := &fakeDiscord{t: t, received: make(chan map[string]any, 10)}
	c, dials := newTestClient(t, f)

	// Clear connects lazily
	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	receive(t, f)

	cmd := receive(t, f)
	args := cmd["args"].(map[string]any)
	if _, ok := args["activity"]; ok {
		t.Errorf("Clear should not send an activity, got %v", args["activity"])
	}
	if *dials != 1 {
		t.Errorf("Expected one dial, got %d", *dials)
	}
}

func TestClient_ErrorEvent(t *testing.T) {
	f := &fakeDiscord{
		t:        t,
		received: make(chan map[string]any, 10),
		reply: func(cmd map[string]any) (uint32, any) {
			return opFrame, map[string]any{
				"cmd":   cmd["cmd"],
				"nonce": cmd["nonce"],
				"evt":   "ERROR",
				"data":  map[string]any{"code": 4000, "message": "child \"activity\" fails"},
			}
		},
	}
	c, dials := newTestClient(t, f)

	err := c.Update(context.Background(), domain.Activity{Details: "x"})
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Expected RPCError, got %v", err)
	}
	if rpcErr.Code != 4000 {
		t.Errorf("Code mismatch: want 4000, got %d", rpcErr.Code)
	}

	// An error event keeps the connection
	if !c.Connected() {
		t.Error("Connection should survive an error event")
	}
	if *dials != 1 {
		t.Errorf("Expected one dial, got %d", *dials)
	}
}

func TestClient_ReconnectsAfterClose(t *testing.T) {
	first := true
	f := &fakeDiscord{
		t:        t,
		received: make(chan map[string]any, 10),
	}
	f.reply = func(cmd map[string]any) (uint32, any) {
		if first {
			first = false
			return opClose, map[string]any{"code": 1000, "message": "closing"}
		}
		return opFrame, map[string]any{"cmd": cmd["cmd"], "nonce": cmd["nonce"]}
	}
	c, dials := newTestClient(t, f)

	if err := c.Update(context.Background(), domain.Activity{Details: "x"}); err == nil {
		t.Fatal("Expected error after close frame, got nil")
	}
	if c.Connected() {
		t.Error("Connection should be dropped after a close frame")
	}

	if err := c.Update(context.Background(), domain.Activity{Details: "x"}); err != nil {
		t.Fatalf("Update after reconnect failed: %v", err)
	}
	if *dials != 2 {
		t.Errorf("Expected two dials, got %d", *dials)
	}
}

func TestClient_DialFailure(t *testing.T) {
	dial := func(ctx context.Context) (net.Conn, error) { return nil, fmt.Errorf("no socket") }
	c := NewClient(zap.NewNop(), stubConfig{}, dial)

	if err := c.Connect(context.Background()); err == nil {
		t.Error("Expected error, got nil")
	}
	if err := c.Clear(context.Background()); err == nil {
		t.Error("Expected error, got nil")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close without connection should succeed, got %v", err)
	}
}

func TestToActivity_OmitsEmptyParts(t *testing.T) {
	got := toActivity(domain.Activity{Details: "Song", State: "by Artist"})
	want := &activity{Details: "Song", State: "by Artist"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toActivity mismatch (-want +got):\n%s", diff)
	}
}
