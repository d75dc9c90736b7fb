package commands

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/pkg/dlsrpc"
)

// run executes dlc with args against store and returns stdout.
func run(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(append([]string{"--store", store}, args...))
	err := root.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, store string, args ...string) string {
	t.Helper()
	out, err := run(t, store, args...)
	if err != nil {
		t.Fatalf("dlc %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func tempStore(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.json")
}

func TestNewAndList(t *testing.T) {
	store := tempStore(t)
	out := mustRun(t, store, "new", "50", "ICCFullMember", "--team-1", "England", "--team-2", "Australia")
	if !strings.Contains(out, "Created match 1") || !strings.Contains(out, "G50 245") {
		t.Errorf("new output = %q", out)
	}
	mustRun(t, store, "new", "20", "associate")

	out = mustRun(t, store, "list")
	if !strings.Contains(out, "Match 1 between England and Australia") {
		t.Errorf("list missing match 1: %q", out)
	}
	if !strings.Contains(out, "Match 2 between Team 1 and Team 2 (20 overs, associate") {
		t.Errorf("list missing match 2: %q", out)
	}
}

func TestNew_Invalid(t *testing.T) {
	store := tempStore(t)
	if _, err := run(t, store, "new", "0", "full-member"); err == nil {
		t.Error("zero overs: expected error")
	}
	if _, err := run(t, store, "new", "50", "village"); err == nil {
		t.Error("unknown category: expected error")
	}
	if _, err := run(t, store, "new", "fifty", "full-member"); err == nil {
		t.Error("non-numeric length: expected error")
	}
}

func TestInterruptionsAndTarget(t *testing.T) {
	store := tempStore(t)
	mustRun(t, store, "new", "50", "full-member", "--team-2", "Ireland")
	mustRun(t, store, "int", "1", "12", "10", "second")
	mustRun(t, store, "int", "3", "22", "2", "second")
	mustRun(t, store, "int", "6", "30.2", "7.4", "second")

	out := mustRun(t, store, "target", "250")
	if !strings.Contains(out, "Adjusted target for Ireland is 160") {
		t.Errorf("target output = %q", out)
	}
	// The last stoppage came with every remaining over bowled or lost.
	if !strings.Contains(out, "  0 overs allotted") {
		t.Errorf("target output missing overs: %q", out)
	}

	out = mustRun(t, store, "show")
	for _, want := range []string{"second innings: 30.2 overs allocated of 50", "3. 6 down after 30.2 overs (7.4 left), 7.4 overs lost", "need 160"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestInterruption_OversLeftFlag(t *testing.T) {
	store := tempStore(t)
	mustRun(t, store, "new", "50", "full-member")
	// 30 overs left at the stoppage means 20 had been bowled.
	out := mustRun(t, store, "int", "3", "30", "10", "first", "--overs-left")
	if !strings.Contains(out, "interrupted at 20 for 3") || !strings.Contains(out, "allocation now 40") {
		t.Errorf("int output = %q", out)
	}
	out = mustRun(t, store, "target", "180")
	if !strings.Contains(out, "is 185") {
		t.Errorf("target output = %q", out)
	}
}

func TestInterruption_Rejected(t *testing.T) {
	store := tempStore(t)
	mustRun(t, store, "new", "50", "full-member")
	if _, err := run(t, store, "int", "2", "30", "21", "first"); err == nil {
		t.Error("removing more overs than remain: expected error")
	}
	if _, err := run(t, store, "int", "2", "30", "5", "third"); err == nil {
		t.Error("unknown innings: expected error")
	}
	if _, err := run(t, store, "int", "2", "30.7", "5", "first"); err == nil {
		t.Error("bad overs notation: expected error")
	}
	out := mustRun(t, store, "show")
	if !strings.Contains(out, "first innings: 50 overs allocated") {
		t.Errorf("rejected interruptions changed the match:\n%s", out)
	}
}

func TestSelectByID(t *testing.T) {
	store := tempStore(t)
	mustRun(t, store, "new", "50", "full-member", "--team-2", "First")
	mustRun(t, store, "new", "50", "full-member", "--team-2", "Second")

	out := mustRun(t, store, "--id", "1", "target", "200")
	if !strings.Contains(out, "Adjusted target for First is 201") {
		t.Errorf("target --id 1 = %q", out)
	}
	if _, err := run(t, store, "--id", "9", "show"); err == nil {
		t.Error("unknown id: expected error")
	}
}

func TestDelete(t *testing.T) {
	store := tempStore(t)
	mustRun(t, store, "new", "50", "full-member")
	mustRun(t, store, "new", "50", "full-member")
	out := mustRun(t, store, "delete", "1", "5")
	if !strings.Contains(out, "Deleted 1 of 2") {
		t.Errorf("delete output = %q", out)
	}
	out = mustRun(t, store, "list")
	if strings.Contains(out, "Match 1 ") || !strings.Contains(out, "Match 2 ") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestStoreFromEnvironment(t *testing.T) {
	store := tempStore(t)
	t.Setenv(envStorage, store)

	var out bytes.Buffer
	root := newRootCmd(&out, &bytes.Buffer{})
	root.SetArgs([]string{"new", "40", "u19-international"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := mustRun(t, store, "list"); !strings.Contains(got, "40 overs, u19-international") {
		t.Errorf("match not written to env store: %q", got)
	}
}

func TestCategories(t *testing.T) {
	out := mustRun(t, tempStore(t), "categories")
	if !strings.Contains(out, "womens-international") || !strings.Contains(out, "G50 245") {
		t.Errorf("categories output = %q", out)
	}
}

// --- remote target ---

type fixedCalculator struct {
	gotScore int
}

func (f *fixedCalculator) ComputeTarget(_ context.Context, req *dlsrpc.TargetRequest) (*dlsrpc.TargetResponse, error) {
	f.gotScore = req.Team1Score
	m, err := dls.Restore(req.Match)
	if err != nil {
		return nil, err
	}
	res, err := m.ComputeTarget(req.Team1Score)
	if err != nil {
		return nil, err
	}
	return &dlsrpc.TargetResponse{Result: res}, nil
}

func (f *fixedCalculator) ResourcePercentage(context.Context, *dlsrpc.ResourceRequest) (*dlsrpc.ResourceResponse, error) {
	return &dlsrpc.ResourceResponse{}, nil
}

func TestTarget_Remote(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := grpc.NewServer()
	calc := &fixedCalculator{}
	dlsrpc.RegisterCalculatorServer(srv, calc)
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	store := tempStore(t)
	mustRun(t, store, "new", "45", "full-member")
	mustRun(t, store, "int", "0", "0", "10", "second")

	out := mustRun(t, store, "--server", lis.Addr().String(), "target", "212")
	if !strings.Contains(out, "is 185") {
		t.Errorf("remote target output = %q", out)
	}
	if calc.gotScore != 212 {
		t.Errorf("server saw score %d, want 212", calc.gotScore)
	}
}
