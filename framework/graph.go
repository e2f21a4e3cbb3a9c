package framework

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// NodeType enumerates supported node categories.
type NodeType string

const (
	NodeTypeLLM      NodeType = "llm"
	NodeTypeTool     NodeType = "tool"
	NodeTypeTerminal NodeType = "terminal"
)

// Node describes the unit of work executed inside a graph.
type Node interface {
	ID() string
	Type() NodeType
	Execute(ctx context.Context, state *State) (*Result, error)
}

// Result captures the outcome of a node execution.
type Result struct {
	NodeID  string
	Success bool
	Data    map[string]any
}

// ConditionFunc decides whether an edge should be followed.
type ConditionFunc func(result *Result, state *State) bool

// Edge describes a transition between nodes.
type Edge struct {
	From      string
	To        string
	Condition ConditionFunc
}

// Graph is a small deterministic state machine: nodes are registered ahead of
// time, edges describe transitions, and Execute walks the graph while enforcing
// a bounded number of node visits to guard against runaway loops.
type Graph struct {
	nodes         map[string]Node
	edges         map[string][]Edge
	startNodeID   string
	maxNodeVisits int
}

// NewGraph creates a graph with sane defaults.
func NewGraph() *Graph {
	return &Graph{
		nodes:         make(map[string]Node),
		edges:         make(map[string][]Edge),
		maxNodeVisits: 64,
	}
}

// SetMaxVisits overrides the per-node visit cap.
func (g *Graph) SetMaxVisits(n int) {
	if n > 0 {
		g.maxNodeVisits = n
	}
}

// AddNode registers a node.
func (g *Graph) AddNode(node Node) error {
	if _, exists := g.nodes[node.ID()]; exists {
		return fmt.Errorf("node %s already exists", node.ID())
	}
	g.nodes[node.ID()] = node
	return nil
}

// SetStart marks the starting node.
func (g *Graph) SetStart(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("start node %s not found", id)
	}
	g.startNodeID = id
	return nil
}

// AddEdge wires two nodes together. A nil condition always matches.
func (g *Graph) AddEdge(from, to string, condition ConditionFunc) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("node %s not defined", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("node %s not defined", to)
	}
	g.edges[from] = append(g.edges[from], Edge{From: from, To: to, Condition: condition})
	return nil
}

// Validate ensures the graph is runnable and all references exist.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return errors.New("graph has no nodes")
	}
	if g.startNodeID == "" {
		return errors.New("graph has no start node")
	}
	for from, edges := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge references missing node %s", from)
		}
		for _, edge := range edges {
			if _, ok := g.nodes[edge.To]; !ok {
				return fmt.Errorf("edge references missing node %s", edge.To)
			}
		}
	}
	return nil
}

// Execute runs the graph from its start node and returns the last node result.
func (g *Graph) Execute(ctx context.Context, state *State) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	visits := make(map[string]int)
	current := g.startNodeID
	var lastResult *Result
	for current != "" {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		node, ok := g.nodes[current]
		if !ok {
			return nil, fmt.Errorf("node %s missing", current)
		}
		visits[current]++
		if visits[current] > g.maxNodeVisits {
			return nil, fmt.Errorf("node %s exceeded visit limit %d", current, g.maxNodeVisits)
		}
		log.Debug().Str("node", current).Int("visit", visits[current]).Msg("graph step")
		result, err := node.Execute(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("node %s execution failed: %w", current, err)
		}
		if result == nil {
			result = &Result{NodeID: current, Success: true}
		}
		result.NodeID = current
		lastResult = result
		next, err := g.nextNode(node, result, state)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return lastResult, nil
}

// nextNode evaluates the outgoing edges for a node. At most one edge may match;
// ambiguity is a wiring bug and reported as an error.
func (g *Graph) nextNode(node Node, result *Result, state *State) (string, error) {
	outEdges := g.edges[node.ID()]
	if len(outEdges) == 0 || node.Type() == NodeTypeTerminal {
		return "", nil
	}
	var matched []Edge
	for _, edge := range outEdges {
		if edge.Condition != nil && !edge.Condition(result, state) {
			continue
		}
		matched = append(matched, edge)
	}
	if len(matched) == 0 {
		return "", nil
	}
	if len(matched) > 1 {
		return "", fmt.Errorf("ambiguous transitions from %s", node.ID())
	}
	return matched[0].To, nil
}

// TerminalNode marks the end of a workflow.
type TerminalNode struct {
	id string
}

// NewTerminalNode creates a terminal node.
func NewTerminalNode(id string) *TerminalNode {
	return &TerminalNode{id: id}
}

func (n *TerminalNode) ID() string     { return n.id }
func (n *TerminalNode) Type() NodeType { return NodeTypeTerminal }

// Execute completes immediately.
func (n *TerminalNode) Execute(ctx context.Context, state *State) (*Result, error) {
	return &Result{NodeID: n.id, Success: true}, nil
}
