package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
	"go-gin-user-console/internal/style"
)

const (
	outTable = "table"
	outJSON  = "json"
	outYAML  = "yaml"
)

// 测试替换
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	stdoutWidth     = func() int {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return 0
		}
		return w
	}
)

func checkFormat(f string) error {
	switch f {
	case outTable, outJSON, outYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (table|json|yaml)", f)
}

func writeData(w io.Writer, format string, v any) error {
	switch format {
	case outJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

func writeList(w io.Writer, format string, rows []domain.Record, total int) error {
	if format != outTable {
		return writeData(w, format, rows)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.ID.String(), r.Name, r.Email, r.Phone})
	}
	fmt.Fprintln(w, style.Table([]string{"ID", "Name", "Email", "Phone"}, cells, stdoutWidth()))
	fmt.Fprintln(w, style.Dim.Render(fmt.Sprintf("%d of %d users", len(rows), total)))
	return nil
}

func writeRecord(w io.Writer, format string, r domain.Record) error {
	if format != outTable {
		return writeData(w, format, r)
	}
	na := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	fmt.Fprintln(w, style.Bold.Render(r.Name)+" "+style.Dim.Render("#"+r.ID.String()))
	fmt.Fprintf(w, "Username: %s\n", style.Accent.Render(r.Username))
	fmt.Fprintf(w, "Email: %s\n", r.Email)
	fmt.Fprintf(w, "Phone: %s\n", r.Phone)
	fmt.Fprintf(w, "Address: %s, %s\n", r.Address.Street, r.Address.City)
	fmt.Fprintf(w, "Company: %s\n", na(r.Company.Name))
	fmt.Fprintf(w, "Website: %s\n", na(r.Website))
	return nil
}

func writeFieldErrors(w io.Writer, errs user.Errors) {
	for _, k := range errs.Keys() {
		fmt.Fprintf(w, "%s %s: %s\n", style.ErrorPrefix, k, errs[k])
	}
}

// notifier 提示统一打到 stderr
func notifier(w io.Writer) user.Notifier {
	return user.NotifierFunc(func(level user.Level, msg string) {
		prefix := style.SuccessPrefix
		if level == user.LevelError {
			prefix = style.ErrorPrefix
		}
		fmt.Fprintln(w, prefix, msg)
	})
}

// parseSet "address.city=Paris" -> (path, value)
func parseSet(s string) (string, string, error) {
	path, value, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return "", "", fmt.Errorf("--set %q: want field=value", s)
	}
	return strings.TrimSpace(path), value, nil
}
