// Copyright © 2024 The ELPS authors

package dapview

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/go-dap"
	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/format"
	"github.com/luthersystems/gleamconsole/literal"
	"github.com/luthersystems/gleamconsole/tree"
)

const consoleThreadID = 1

// refTarget is what a variables reference expands: a single tree node,
// or the expandable values of an item holding more than one.
type refTarget struct {
	node  *tree.Node
	nodes []*tree.Node
}

// launchArguments are the launch request arguments the server reads.
type launchArguments struct {
	Program string `json:"program"`
}

// handler dispatches incoming DAP messages to the appropriate method.
type handler struct {
	server *Server

	mu      sync.Mutex
	refs    map[int]refTarget
	byNode  map[*tree.Node]int
	nextRef int
	// sent holds the items and group headers already sent as output.
	sent map[*dom.Node]bool
}

func newHandler(s *Server) *handler {
	return &handler{
		server: s,
		refs:   make(map[int]refTarget),
		byNode: make(map[*tree.Node]int),
		sent:   make(map[*dom.Node]bool),
	}
}

// send sends a DAP message and logs any write error.
func (h *handler) send(msg dap.Message) {
	if err := h.server.send(msg); err != nil {
		h.server.log.Error("send failed", "error", err)
	}
}

func (h *handler) handle(msg dap.Message) {
	switch req := msg.(type) {
	case *dap.InitializeRequest:
		h.onInitialize(req)
	case *dap.LaunchRequest:
		h.onLaunch(req)
	case *dap.SetExceptionBreakpointsRequest:
		h.onSetExceptionBreakpoints(req)
	case *dap.ConfigurationDoneRequest:
		h.onConfigurationDone(req)
	case *dap.ThreadsRequest:
		h.onThreads(req)
	case *dap.VariablesRequest:
		h.onVariables(req)
	case *dap.EvaluateRequest:
		h.onEvaluate(req)
	case *dap.DisconnectRequest:
		h.onDisconnect(req)
		return
	default:
		h.server.log.Debug("unhandled message", "type", fmt.Sprintf("%T", msg))
	}
	h.flush()
}

func (h *handler) onInitialize(req *dap.InitializeRequest) {
	h.server.log.Debug("initialize", "client", req.Arguments.ClientID, "adapter", req.Arguments.AdapterID)
	resp := &dap.InitializeResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body = dap.Capabilities{
		SupportsConfigurationDoneRequest: true,
		SupportsEvaluateForHovers:        true,
	}
	h.send(resp)

	// Send initialized event to tell the client it can send configuration.
	h.send(&dap.InitializedEvent{
		Event: h.newEvent("initialized"),
	})
}

func (h *handler) onLaunch(req *dap.LaunchRequest) {
	resp := &dap.LaunchResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)

	var args launchArguments
	if len(req.Arguments) > 0 {
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			resp.Success = false
			resp.Message = "invalid launch arguments: " + err.Error()
			h.send(resp)
			return
		}
	}
	if args.Program != "" {
		vals, err := literal.ReadFile(args.Program)
		if err != nil {
			resp.Success = false
			resp.Message = err.Error()
			h.send(resp)
			return
		}
		h.server.log.Info("launch", "program", args.Program, "values", len(vals))
		for _, v := range vals {
			h.server.session.Log(v)
		}
	}
	h.send(resp)
}

func (h *handler) onSetExceptionBreakpoints(req *dap.SetExceptionBreakpointsRequest) {
	resp := &dap.SetExceptionBreakpointsResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)
}

func (h *handler) onConfigurationDone(req *dap.ConfigurationDoneRequest) {
	resp := &dap.ConfigurationDoneResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)
}

func (h *handler) onThreads(req *dap.ThreadsRequest) {
	resp := &dap.ThreadsResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body.Threads = []dap.Thread{
		{Id: consoleThreadID, Name: "Console"},
	}
	h.send(resp)
}

func (h *handler) onVariables(req *dap.VariablesRequest) {
	resp := &dap.VariablesResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)

	target, ok := h.target(req.Arguments.VariablesReference)
	if !ok {
		resp.Success = false
		resp.Message = "unknown variables reference " + strconv.Itoa(req.Arguments.VariablesReference)
		h.send(resp)
		return
	}
	vars := []dap.Variable{}
	h.server.session.Sync(func() {
		if target.node == nil {
			for i, n := range target.nodes {
				vars = append(vars, dap.Variable{
					Name:               strconv.Itoa(i),
					Value:              h.server.text.Inline(n.Title()),
					VariablesReference: h.ref(n),
				})
			}
			return
		}
		target.node.Expand()
		vars = h.rows(target.node, vars)
	})
	resp.Body.Variables = vars
	h.send(resp)
}

// rows returns one variable per row of the open view of n.
func (h *handler) rows(n *tree.Node, vars []dap.Variable) []dap.Variable {
	for _, c := range n.Body().Children {
		rows := []*dom.Node{c}
		if c.HasClass("object") {
			rows = c.Children
		}
		for _, row := range rows {
			if row.Kind == dom.TextNode {
				vars = append(vars, dap.Variable{Name: "source", Value: row.Data})
				continue
			}
			label, ref := row, 0
			if sub, ok := row.Ctrl.(*tree.Node); ok {
				label, ref = sub.Title(), h.ref(sub)
			}
			name, val := h.split(label)
			if name == "" {
				name = strconv.Itoa(len(vars))
			}
			vars = append(vars, dap.Variable{Name: name, Value: val, VariablesReference: ref})
		}
	}
	return vars
}

// split separates a "key: value" row into its key and value text.
func (h *handler) split(label *dom.Node) (string, string) {
	kids := label.Children
	if len(kids) >= 2 && kids[1].Kind == dom.TextNode && kids[1].Data == ": " {
		var val strings.Builder
		for _, c := range kids[2:] {
			val.WriteString(h.server.text.Inline(c))
		}
		return h.server.text.Inline(kids[0]), val.String()
	}
	return "", h.server.text.Inline(label)
}

func (h *handler) onEvaluate(req *dap.EvaluateRequest) {
	resp := &dap.EvaluateResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)

	v, err := literal.ParseOne(req.Arguments.Expression)
	if err != nil {
		resp.Success = false
		resp.Message = err.Error()
		h.send(resp)
		return
	}
	session := h.server.session
	resp.Body.Type = format.TypeName(v)
	switch req.Arguments.Context {
	case "", "repl":
		session.Log(v)
		session.Sync(func() {
			items := session.Root().FindAll(isItem)
			if len(items) == 0 {
				return
			}
			last := items[len(items)-1]
			h.markSent(last)
			resp.Body.Result = h.server.text.Inline(last)
			resp.Body.VariablesReference = h.itemRef(last)
		})
	default:
		session.Sync(func() {
			el := session.Formatter().Format(v, format.Normal)
			resp.Body.Result = h.server.text.Inline(el)
			resp.Body.VariablesReference = h.itemRef(el)
		})
	}
	h.send(resp)
}

func (h *handler) onDisconnect(req *dap.DisconnectRequest) {
	resp := &dap.DisconnectResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)

	// Send terminated event.
	h.send(&dap.TerminatedEvent{
		Event: h.newEvent("terminated"),
	})
	h.server.close()
}

// flush sends an output event for every item and group header not sent
// before, in document order.
func (h *handler) flush() {
	var events []*dap.OutputEvent
	h.server.session.Sync(func() {
		h.server.session.Root().Walk(func(n *dom.Node) bool {
			header := n.HasClass("group-header")
			if !header && !isItem(n) {
				return true
			}
			if h.markSent(n) {
				events = append(events, h.output(n, header))
			}
			return false
		})
	})
	for _, evt := range events {
		h.send(evt)
	}
}

func (h *handler) markSent(n *dom.Node) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent[n] {
		return false
	}
	h.sent[n] = true
	return true
}

func (h *handler) output(n *dom.Node, header bool) *dap.OutputEvent {
	evt := &dap.OutputEvent{
		Event: h.newEvent("output"),
	}
	evt.Body.Output = h.server.text.Inline(n) + "\n"
	switch {
	case header:
		evt.Body.Category = "console"
	case level(n) == console.LevelError:
		evt.Body.Category = "stderr"
	default:
		evt.Body.Category = "stdout"
	}
	if !header {
		evt.Body.VariablesReference = h.itemRef(n)
	}
	return evt
}

// itemRef returns the variables reference of the expandable values in n,
// or zero if it has none.
func (h *handler) itemRef(n *dom.Node) int {
	var nodes []*tree.Node
	n.Walk(func(c *dom.Node) bool {
		if t, ok := c.Ctrl.(*tree.Node); ok {
			nodes = append(nodes, t)
			return false
		}
		return true
	})
	switch len(nodes) {
	case 0:
		return 0
	case 1:
		return h.ref(nodes[0])
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextRef++
	h.refs[h.nextRef] = refTarget{nodes: nodes}
	return h.nextRef
}

// ref returns the variables reference of n, allocating one on first use.
func (h *handler) ref(n *tree.Node) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.byNode[n]; ok {
		return r
	}
	h.nextRef++
	h.refs[h.nextRef] = refTarget{node: n}
	h.byNode[n] = h.nextRef
	return h.nextRef
}

func (h *handler) target(ref int) (refTarget, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.refs[ref]
	return t, ok
}

func isItem(n *dom.Node) bool {
	_, ok := n.Attr("data-log-level")
	return ok
}

func level(n *dom.Node) string {
	l, _ := n.Attr("data-log-level")
	return l
}

// --- helpers ---

func (h *handler) newResponse(reqSeq int, command string) dap.Response {
	return dap.Response{
		ProtocolMessage: dap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "response"},
		RequestSeq:      reqSeq,
		Success:         true,
		Command:         command,
	}
}

func (h *handler) newEvent(event string) dap.Event {
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "event"},
		Event:           event,
	}
}
