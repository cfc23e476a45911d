package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/linecomment/internal/engine"
)

// maxRequestSize bounds one request line.
const maxRequestSize = 64 * 1024 * 1024

// Serve answers JSON-lines toggle requests read from r, writing one response
// line to w per request:
//
//	{"id": 1, "text": "a\nb", "path": "x.go", "selections": [[0, 3]]}
//	{"id": 1, "text": "// a\n// b", "token": "//", "edits": [...], "commented": [true]}
//
// Requests may also carry "language", "token" and "lines" (1-indexed
// inclusive [first, last] pairs). A request that fails is answered with
// {"id": ..., "error": "..."} and serving continues. Serve returns when r is
// exhausted, or when ctx is done between requests.
func (app *Application) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logger := app.logger.Named("serve")
	bw := bufio.NewWriter(w)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)

	served := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := app.handleRequest(line, logger)
		if _, err := bw.WriteString(resp + "\n"); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		served++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}

	snap := app.metrics.Snapshot()
	logger.Info("serve finished",
		zap.Int("requests", served),
		zap.Uint64("failures", snap.Failures),
		zap.Duration("avg_latency", snap.AvgLatency),
	)
	return nil
}

func (app *Application) handleRequest(line string, logger *zap.Logger) string {
	id := gjson.Get(line, "id")

	req, err := parseRequest(line)
	if err != nil {
		app.metrics.RecordFailure()
		logger.Warn("bad request", zap.Error(err))
		return errorResponse(id, err)
	}

	res, err := app.ToggleText(req)
	if err != nil {
		logger.Warn("toggle failed", zap.String("path", req.Path), zap.Error(err))
		return errorResponse(id, err)
	}

	logger.Debug("request served",
		zap.String("id", id.String()),
		zap.Int("changes", len(res.Changes)),
	)
	return resultResponse(id, res)
}

func parseRequest(line string) (Request, error) {
	if !gjson.Valid(line) {
		return Request{}, fmt.Errorf("%w: malformed JSON", ErrInvalidRequest)
	}
	if !gjson.Parse(line).IsObject() {
		return Request{}, fmt.Errorf("%w: request must be an object", ErrInvalidRequest)
	}

	fields := gjson.GetMany(line, "text", "path", "language", "token", "selections", "lines")
	text, path, language, token, sels, lines := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

	if text.Type != gjson.String {
		return Request{}, fmt.Errorf("%w: text must be a string", ErrInvalidRequest)
	}

	req := Request{
		Text:     text.String(),
		Path:     path.String(),
		Language: language.String(),
		Token:    token.String(),
	}

	pairs, err := parsePairs("selections", sels, 0)
	if err != nil {
		return Request{}, err
	}
	for _, p := range pairs {
		req.Selections = append(req.Selections, engine.Selection{Anchor: p[0], Head: p[1]})
	}

	pairs, err = parsePairs("lines", lines, 1)
	if err != nil {
		return Request{}, err
	}
	for _, p := range pairs {
		req.Lines = append(req.Lines, engine.LineSpan{First: p[0] - 1, Last: p[1] - 1})
	}

	return req, nil
}

// parsePairs reads an array of two-integer arrays whose values are at
// least minValue.
func parsePairs(field string, res gjson.Result, minValue int) ([][2]int, error) {
	if !res.Exists() || res.Type == gjson.Null {
		return nil, nil
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidRequest, field)
	}

	var (
		pairs [][2]int
		err   error
	)
	res.ForEach(func(_, item gjson.Result) bool {
		vals := item.Array()
		if !item.IsArray() || len(vals) != 2 {
			err = fmt.Errorf("%w: %s entries must be [a, b] pairs", ErrInvalidRequest, field)
			return false
		}
		var p [2]int
		for i, v := range vals {
			if v.Type != gjson.Number || v.Num != float64(int(v.Num)) || int(v.Num) < minValue {
				err = fmt.Errorf("%w: %s values must be integers >= %d", ErrInvalidRequest, field, minValue)
				return false
			}
			p[i] = int(v.Num)
		}
		pairs = append(pairs, p)
		return true
	})
	return pairs, err
}

func withID(id gjson.Result) string {
	out := "{}"
	if id.Exists() {
		out, _ = sjson.SetRaw(out, "id", id.Raw)
	}
	return out
}

func errorResponse(id gjson.Result, err error) string {
	out, _ := sjson.Set(withID(id), "error", err.Error())
	return out
}

func resultResponse(id gjson.Result, res Result) string {
	out := withID(id)
	out, _ = sjson.Set(out, "text", res.Text)
	out, _ = sjson.Set(out, "token", res.Token)

	out, _ = sjson.SetRaw(out, "edits", "[]")
	for _, c := range res.Changes {
		edit := "{}"
		edit, _ = sjson.Set(edit, "start", c.Start)
		edit, _ = sjson.Set(edit, "end", c.End)
		edit, _ = sjson.Set(edit, "text", c.Text)
		out, _ = sjson.SetRaw(out, "edits.-1", edit)
	}

	out, _ = sjson.SetRaw(out, "commented", "[]")
	for _, c := range res.Commented {
		out, _ = sjson.Set(out, "commented.-1", c)
	}
	return out
}
