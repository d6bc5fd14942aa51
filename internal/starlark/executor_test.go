package starlark

import (
	"strings"
	"sync"
	"testing"
)

func TestCompileAndCall(t *testing.T) {
	tool, err := Compile("add_two", "def add_two(a, b):\n    return a + b\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if tool.Name() != "add_two" {
		t.Errorf("Name() = %q, want %q", tool.Name(), "add_two")
	}

	result, err := tool.Call(map[string]any{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result != int64(5) {
		t.Errorf("Call() = %v (%T), want 5", result, result)
	}
}

func TestCompileWithLoad(t *testing.T) {
	source := "load(\"math\", \"sqrt\")\n\ndef root(x):\n    return sqrt(x)\n"
	tool, err := Compile("root", source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	result, err := tool.Call(map[string]any{"x": 16.0})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result != 4.0 {
		t.Errorf("Call() = %v, want 4.0", result)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"syntax error", "def f(:\n    return 1\n", "failed to compile"},
		{"missing function", "def g():\n    return 1\n", "does not define a function"},
		{"not callable", "f = 42\n", "not callable"},
		{"unavailable module", "load(\"socket\", \"socket\")\n\ndef f():\n    return socket()\n", "not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("f", tt.source)
			if err == nil {
				t.Fatalf("Compile() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Compile() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestCallRuntimeFault(t *testing.T) {
	tool, err := Compile("boom", "def boom(x):\n    return 1 // x\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	_, err = tool.Call(map[string]any{"x": 0})
	if err == nil {
		t.Fatal("Call() succeeded, want division error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("Call() error = %v, want division by zero", err)
	}
}

func TestCallUnknownArgument(t *testing.T) {
	tool, err := Compile("f", "def f(a):\n    return a\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := tool.Call(map[string]any{"nope": 1}); err == nil {
		t.Error("Call() with unexpected keyword succeeded, want error")
	}
}

func TestCallConcurrent(t *testing.T) {
	tool, err := Compile("double", "def double(x):\n    return x * 2\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			result, err := tool.Call(map[string]any{"x": n})
			if err != nil {
				t.Errorf("Call(%d) error = %v", n, err)
				return
			}
			if result != int64(2*n) {
				t.Errorf("Call(%d) = %v, want %d", n, result, 2*n)
			}
		}(i)
	}
	wg.Wait()
}

func TestLoadUnknownModule(t *testing.T) {
	if _, err := Load(nil, "socket"); err == nil {
		t.Error("Load(socket) succeeded, want error")
	}
}

func TestModuleNames(t *testing.T) {
	names := ModuleNames()
	for _, want := range []string{"json", "math", "struct", "time"} {
		if !HasModule(want) {
			t.Errorf("HasModule(%q) = false, want true", want)
		}
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("ModuleNames() missing %q (got %v)", want, names)
		}
	}
}
