package remote

import (
	"fmt"
	"strings"
	"testing"
)

func TestQuoteArgument(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain.mp3", `"plain.mp3"`},
		{"with space.mp3", `"with space.mp3"`},
		{`back\slash`, `"back\\slash"`},
		{`dou"ble`, `"dou\"ble"`},
		{"dollar$PATH", `"dollar\$PATH"`},
		{"tick`ls`", "\"tick\\`ls\\`\""},
		{`all\"$` + "`", "\"all\\\\\\\"\\$\\`\""},
		{"semi;colon&and|pipe", `"semi;colon&and|pipe"`},
	}
	for _, tc := range cases {
		if got := QuoteArgument(tc.in); got != tc.want {
			t.Errorf("QuoteArgument(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

// evalDoubleQuoted undoes POSIX double-quote semantics: inside double
// quotes a backslash is only special before \ " $ and backtick.
func evalDoubleQuoted(t *testing.T, s string) string {
	t.Helper()
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		t.Fatalf("not a double-quoted string: %q", s)
	}
	body := s[1 : len(s)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '"' {
			t.Fatalf("unescaped quote inside quoted argument: %q", s)
		}
		if c == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case '\\', '"', '$', '`':
				out = append(out, body[i+1])
				i++
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, probe := range selfTestProbes {
		got := evalDoubleQuoted(t, QuoteArgument(probe))
		if got != probe {
			t.Errorf("round trip mangled %q into %q", probe, got)
		}
	}
}

// echoSession emulates a remote shell that evaluates the quoted
// argument correctly, the way the self-test's date command would.
type echoSession struct {
	t *testing.T
}

func (s *echoSession) Run(cmd string) (string, error) {
	if !strings.HasPrefix(cmd, "date +") {
		return "", fmt.Errorf("unexpected command %q", cmd)
	}
	return evalDoubleQuoted(s.t, strings.TrimPrefix(cmd, "date +")) + "\r\n", nil
}

func (s *echoSession) Push(local, remote string) error { return nil }
func (s *echoSession) Close() error                    { return nil }

// mangleSession drops the escaping, like a transport that re-quotes
// arguments without escaping them.
type mangleSession struct{}

func (s *mangleSession) Run(cmd string) (string, error) {
	arg := strings.TrimPrefix(cmd, "date +")
	return strings.Trim(arg, `"`) + "\n", nil
}

func (s *mangleSession) Push(local, remote string) error { return nil }
func (s *mangleSession) Close() error                    { return nil }

func TestSelfTest(t *testing.T) {
	if !NewShellFS(&echoSession{t: t}, nil).SelfTest() {
		t.Fatal("self-test failed against a correct shell")
	}
	if NewShellFS(&mangleSession{}, nil).SelfTest() {
		t.Fatal("self-test passed against a mangling shell")
	}
}
