package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// WriteEDN writes v as EDN. Values go through their JSON form first, so json tags
// decide the keys; keys become keywords with '_' replaced by '-'.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return err
	}
	var tree any
	if err := sonic.ConfigStd.Unmarshal(b, &tree); err != nil {
		return err
	}

	e := ednWriter{pretty: pretty}
	e.value(tree, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.open('[')
		for i, x := range t {
			e.sep(i, depth+1)
			e.value(x, depth+1)
		}
		e.close(']', len(t), depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.open('{')
		for i, k := range keys {
			e.sep(i, depth+1)
			e.buf.WriteString(keyword(k))
			e.buf.WriteByte(' ')
			e.value(t[k], depth+1)
		}
		e.close('}', len(keys), depth)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

func (e *ednWriter) open(c byte) { e.buf.WriteByte(c) }

func (e *ednWriter) sep(i, depth int) {
	switch {
	case e.pretty:
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	case i > 0:
		e.buf.WriteByte(' ')
	}
}

func (e *ednWriter) close(c byte, n, depth int) {
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
	e.buf.WriteByte(c)
}

func keyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.NewReplacer(" ", "-", "_", "-").Replace(k)
	if k == "" {
		return `:_`
	}
	return ":" + k
}
