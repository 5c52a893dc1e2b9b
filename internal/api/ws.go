package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/merge"
	"github.com/sprite-ai/tmplsync/internal/model"
	"github.com/sprite-ai/tmplsync/internal/prompt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool; serve binds to loopback by default
	},
}

// WebSocket message types from client.
const (
	wsMsgLoad   = "load"
	wsMsgAnswer = "answer"
	wsMsgAbort  = "abort"
)

// WebSocket message types to client.
const (
	wsMsgFile     = "file"
	wsMsgHunk     = "hunk"
	wsMsgPair     = "pair"
	wsMsgGroup    = "group"
	wsMsgLines    = "lines"
	wsMsgNotice   = "notice"
	wsMsgPrompt   = "prompt"
	wsMsgDecision = "decision"
	wsMsgAborted  = "aborted"
	wsMsgError    = "error"
)

// errDisconnected marks failures of the connection itself, after which no
// reply can be sent.
var errDisconnected = errors.New("websocket disconnected")

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsLoad is the payload for "load" messages.
type wsLoad struct {
	Path     string `json:"path"`
	Target   string `json:"target,omitempty"`
	Current  string `json:"current"`
	Rendered string `json:"rendered"`
	Mode     string `json:"mode,omitempty"`
	Context  *int   `json:"context,omitempty"`
}

// wsAnswer is the payload for "answer" messages. Key answers a choice
// prompt; Text answers a free-text one.
type wsAnswer struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text,omitempty"`
}

type wsFileResponse struct {
	Path   string `json:"path"`
	Target string `json:"target,omitempty"`
	Mode   string `json:"mode"`
	Hunks  int    `json:"hunks"`
}

type wsHunkResponse struct {
	Index int      `json:"index"`
	Total int      `json:"total"`
	Hunk  hunkJSON `json:"hunk"`
}

type wsPairResponse struct {
	Removed string `json:"removed"`
	Added   string `json:"added"`
}

type wsGroupResponse struct {
	Removed []string `json:"removed"`
	Added   []string `json:"added"`
}

type wsLinesResponse struct {
	Op    string   `json:"op"`
	Lines []string `json:"lines"`
}

// wsPromptResponse asks the client for an answer. Keys is empty for a
// free-text question.
type wsPromptResponse struct {
	Question string   `json:"question"`
	Legend   string   `json:"legend,omitempty"`
	Keys     []string `json:"keys,omitempty"`
	Default  string   `json:"default,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	sess := &wsSession{conn: conn, logger: s.logger}

	for {
		msg, err := sess.read()
		if err != nil {
			return
		}

		switch msg.Type {
		case wsMsgLoad:
			if err := sess.decide(msg.Data); errors.Is(err, errDisconnected) {
				return
			}
		case wsMsgAnswer, wsMsgAbort:
			sess.sendError("no file loaded")
		default:
			sess.sendError("unknown message type: " + msg.Type)
		}
	}
}

// wsSession drives one connection. It is both the prompt.Prompter and the
// merge.Display of the decider it runs, so every read and write happens on
// the handler goroutine.
type wsSession struct {
	conn   *websocket.Conn
	logger *slog.Logger
	err    error // first write failure
}

func (ws *wsSession) decide(data json.RawMessage) error {
	var load wsLoad
	if err := json.Unmarshal(data, &load); err != nil {
		return ws.sendError("invalid load data")
	}
	if load.Path == "" {
		return ws.sendError("path is required")
	}
	mode, err := model.ParseMode(load.Mode)
	if err != nil {
		return ws.sendError(err.Error())
	}
	n, err := fileRequest{Context: load.Context}.contextLines()
	if err != nil {
		return ws.sendError(err.Error())
	}

	req := model.FileDiffRequest{
		RelativePath:    load.Path,
		TargetPath:      load.Target,
		CurrentContent:  load.Current,
		RenderedContent: load.Rendered,
	}
	dec := merge.NewDecider(model.OptionsFor(mode), ws, ws, merge.WithContext(n), merge.WithLogger(ws.logger))

	d, err := dec.Decide(req)
	switch {
	case errors.Is(err, errDisconnected):
		ws.logger.Debug("websocket session ended", "path", load.Path, "error", err)
		return err
	case errors.Is(err, prompt.ErrAborted):
		return ws.send(wsMsgAborted, map[string]string{"path": load.Path})
	case err != nil:
		return ws.sendError(err.Error())
	}
	return ws.send(wsMsgDecision, resolveResponse{Decision: d.String(), Content: d.Content})
}

// Choose implements prompt.Prompter. Invalid keys are reported and the
// question is asked again; an empty key picks the default.
func (ws *wsSession) Choose(question string, set prompt.ChoiceSet) (string, error) {
	p := wsPromptResponse{
		Question: question,
		Legend:   set.Legend(),
		Keys:     set.Keys(),
		Default:  set.Default,
	}
	for {
		ans, err := ws.ask(p)
		if err != nil {
			return "", err
		}
		k := strings.ToLower(strings.TrimSpace(ans.Key))
		if k == "" {
			return set.Default, nil
		}
		r, _ := utf8.DecodeRuneInString(k)
		if string(r) == prompt.KeyAbort {
			return "", prompt.ErrAborted
		}
		if m, ok := set.Match(r); ok {
			return m, nil
		}
		if err := ws.sendError(fmt.Sprintf("invalid choice %q, allowed: %s", k, strings.Join(set.Keys(), ", "))); err != nil {
			return "", err
		}
	}
}

// Line implements prompt.Prompter.
func (ws *wsSession) Line(question string) (string, error) {
	ans, err := ws.ask(wsPromptResponse{Question: question})
	if err != nil {
		return "", err
	}
	return ans.Text, nil
}

// ask sends p and waits for the next answer. An abort message ends the
// session like the abort key.
func (ws *wsSession) ask(p wsPromptResponse) (wsAnswer, error) {
	if err := ws.send(wsMsgPrompt, p); err != nil {
		return wsAnswer{}, err
	}
	for {
		msg, err := ws.read()
		if err != nil {
			return wsAnswer{}, err
		}
		switch msg.Type {
		case wsMsgAnswer:
			var ans wsAnswer
			if err := json.Unmarshal(msg.Data, &ans); err != nil {
				if err := ws.sendError("invalid answer data"); err != nil {
					return wsAnswer{}, err
				}
				continue
			}
			return ans, nil
		case wsMsgAbort:
			return wsAnswer{}, prompt.ErrAborted
		default:
			if err := ws.sendError("waiting for an answer, got " + msg.Type); err != nil {
				return wsAnswer{}, err
			}
		}
	}
}

// File implements merge.Display.
func (ws *wsSession) File(req model.FileDiffRequest, mode model.Mode, hunks int) {
	ws.send(wsMsgFile, wsFileResponse{
		Path:   req.RelativePath,
		Target: req.TargetPath,
		Mode:   mode.String(),
		Hunks:  hunks,
	})
}

// Hunk implements merge.Display.
func (ws *wsSession) Hunk(index, total int, h diff.Hunk) {
	ws.send(wsMsgHunk, wsHunkResponse{Index: index, Total: total, Hunk: toHunkJSON(h)})
}

// Pair implements merge.Display.
func (ws *wsSession) Pair(removed, added string) {
	ws.send(wsMsgPair, wsPairResponse{Removed: removed, Added: added})
}

// Group implements merge.Display.
func (ws *wsSession) Group(removed, added []string) {
	ws.send(wsMsgGroup, wsGroupResponse{Removed: removed, Added: added})
}

// Lines implements merge.Display.
func (ws *wsSession) Lines(op diff.LineOp, lines []string) {
	ws.send(wsMsgLines, wsLinesResponse{Op: op.String(), Lines: lines})
}

// Notice implements merge.Display.
func (ws *wsSession) Notice(msg string) {
	ws.send(wsMsgNotice, map[string]string{"message": msg})
}

func (ws *wsSession) read() (wsMessage, error) {
	for {
		_, raw, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Warn("websocket read", "error", err)
			}
			return wsMessage{}, fmt.Errorf("%w: %v", errDisconnected, err)
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if err := ws.sendError("invalid message format"); err != nil {
				return wsMessage{}, err
			}
			continue
		}
		return msg, nil
	}
}

// send writes one message. After the first failure every later send fails
// the same way without touching the connection.
func (ws *wsSession) send(msgType string, data any) error {
	if ws.err != nil {
		return ws.err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		ws.logger.Error("ws marshal", "type", msgType, "error", err)
		return err
	}
	if err := ws.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		ws.logger.Warn("ws write", "type", msgType, "error", err)
		ws.err = fmt.Errorf("%w: %v", errDisconnected, err)
		return ws.err
	}
	return nil
}

func (ws *wsSession) sendError(errMsg string) error {
	return ws.send(wsMsgError, map[string]string{"message": errMsg})
}
