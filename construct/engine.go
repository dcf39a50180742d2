package construct

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
)

// Nodes allocates parse nodes.
type Nodes interface {
	// FinishNode creates a rule node. slots has one chain per slot of rule.
	FinishNode(rule, choice uint32, slots [][]parsetree.NodeID, start, end retrace.Stamp) (parsetree.NodeID, error)
	// FinishToken returns the next pending leaf for a token slot.
	FinishToken(rule uint32) (parsetree.NodeID, error)
}

// Schema is the part of the grammar's rule schema needed to build nodes.
// *grammar.Tables implements it.
type Schema interface {
	RootRule() uint32
	RuleLookup(parent uint32, slot uint16) uint32
	NumberOfSlots(rule uint32) int
	OperatorLookup(rule, choice uint32) (grammar.OperatorKind, int, error)
	OperandSlots(rule uint32) (left, right, operand uint32)
}

// ErrActionSequence is returned for action sequences which do not nest.
var ErrActionSequence = errors.New("malformed construct action sequence")

type frameKind uint8

const (
	ruleFrame frameKind = iota
	expressionFrame
	operandFrame
	operatorFrame
)

func (k frameKind) String() string {
	return [...]string{"slot", "expression", "operand", "operator"}[k]
}

// frame is a pending node, opened by an end-action.
type frame struct {
	kind   frameKind
	rule   uint32
	slot   uint16 // slot of the parent frame
	choice uint32
	slots  [][]parsetree.NodeID
	end    retrace.Stamp
	items  []item // operands and operators of an expression, in document order
}

// Engine replays construct actions. An engine builds one tree at a time and
// must not be shared between goroutines.
type Engine struct {
	nodes  Nodes
	schema Schema
	frames *arraystack.Stack
}

// New creates an engine allocating nodes with nodes.
func New(nodes Nodes, schema Schema) *Engine {
	return &Engine{
		nodes:  nodes,
		schema: schema,
		frames: arraystack.New(),
	}
}

func (e *Engine) newFrame(kind frameKind, rule uint32, slot uint16, end retrace.Stamp) *frame {
	f := &frame{kind: kind, rule: rule, slot: slot, end: end}
	if kind != expressionFrame {
		f.slots = make([][]parsetree.NodeID, e.schema.NumberOfSlots(rule))
	}
	return f
}

func (e *Engine) top() (*frame, error) {
	v, ok := e.frames.Peek()
	if !ok {
		return nil, fmt.Errorf("%w: no open node", ErrActionSequence)
	}
	return v.(*frame), nil
}

func (e *Engine) pop(kind frameKind, slot uint16) (*frame, error) {
	f, err := e.top()
	if err != nil {
		return nil, err
	}
	if f.kind != kind || f.slot != slot || e.frames.Size() < 2 {
		return nil, fmt.Errorf("%w: cannot close %s node for slot %d, open node is %s for slot %d",
			ErrActionSequence, kind, slot, f.kind, f.slot)
	}
	e.frames.Pop()
	return f, nil
}

// Begin starts a new tree. The root node ends at end. If expression is set,
// the root rule is an expression rule.
func (e *Engine) Begin(end retrace.Stamp, expression bool) {
	e.frames.Clear()
	kind := ruleFrame
	if expression {
		kind = expressionFrame
	}
	e.frames.Push(e.newFrame(kind, e.schema.RootRule(), 0, end))
}

// Apply replays a single action at position stamp.
func (e *Engine) Apply(action grammar.Action, stamp retrace.Stamp) error {
	tracer().Debugf("%s %d at %v", action.Kind, action.Slot, stamp)
	cur, err := e.top()
	if err != nil {
		return err
	}
	slot := action.Slot
	switch action.Kind {
	case grammar.EndSlot:
		e.frames.Push(e.newFrame(ruleFrame, e.lookup(cur, slot), slot, stamp))
	case grammar.EndExpressionSlot:
		e.frames.Push(e.newFrame(expressionFrame, e.lookup(cur, slot), slot, stamp))
	case grammar.EndOperand:
		if cur.kind != expressionFrame {
			return fmt.Errorf("%w: operand outside of expression", ErrActionSequence)
		}
		e.frames.Push(e.newFrame(operandFrame, cur.rule, slot, stamp))
	case grammar.EndOperator:
		if cur.kind != expressionFrame {
			return fmt.Errorf("%w: operator outside of expression", ErrActionSequence)
		}
		e.frames.Push(e.newFrame(operatorFrame, cur.rule, slot, stamp))
	case grammar.BeginSlot:
		f, err := e.pop(ruleFrame, slot)
		if err != nil {
			return err
		}
		id, err := e.nodes.FinishNode(f.rule, f.choice, f.slots, stamp, f.end)
		if err != nil {
			return err
		}
		parent, _ := e.top()
		return prepend(parent, slot, id)
	case grammar.BeginExpressionSlot:
		f, err := e.pop(expressionFrame, slot)
		if err != nil {
			return err
		}
		id, err := e.resolve(f)
		if err != nil {
			return err
		}
		parent, _ := e.top()
		return prepend(parent, slot, id)
	case grammar.BeginOperand:
		f, err := e.pop(operandFrame, slot)
		if err != nil {
			return err
		}
		id, err := e.nodes.FinishNode(f.rule, f.choice, f.slots, stamp, f.end)
		if err != nil {
			return err
		}
		expr, _ := e.top()
		expr.items = append([]item{{node: id, start: stamp, end: f.end}}, expr.items...)
	case grammar.BeginOperator:
		f, err := e.pop(operatorFrame, slot)
		if err != nil {
			return err
		}
		kind, prec, err := e.schema.OperatorLookup(f.rule, f.choice)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrActionSequence, err)
		}
		op := item{
			operator: true,
			kind:     kind,
			prec:     prec,
			choice:   f.choice,
			slots:    f.slots,
			start:    stamp,
			end:      f.end,
			node:     parsetree.NoNode,
		}
		expr, _ := e.top()
		expr.items = append([]item{op}, expr.items...)
	case grammar.SetSlotChoice:
		cur.choice = uint32(slot)
	case grammar.TokenSlot:
		id, err := e.nodes.FinishToken(e.lookup(cur, slot))
		if err != nil {
			return err
		}
		return prepend(cur, slot, id)
	default:
		return fmt.Errorf("%w: unknown action %v", ErrActionSequence, action.Kind)
	}
	return nil
}

// lookup returns the rule held by a slot of f. Slots of operands and
// operators are slots of the expression rule.
func (e *Engine) lookup(f *frame, slot uint16) uint32 {
	return e.schema.RuleLookup(f.rule, slot)
}

func prepend(f *frame, slot uint16, id parsetree.NodeID) error {
	if int(slot) >= len(f.slots) {
		return fmt.Errorf("%w: rule %d has no slot %d", ErrActionSequence, f.rule, slot)
	}
	f.slots[slot] = append([]parsetree.NodeID{id}, f.slots[slot]...)
	return nil
}

// Finish completes the tree, with the root node starting at start, and
// returns the root node.
func (e *Engine) Finish(start retrace.Stamp) (parsetree.NodeID, error) {
	if e.frames.Size() != 1 {
		f, _ := e.top()
		return parsetree.NoNode, fmt.Errorf("%w: %d nodes left open, innermost is %s for slot %d",
			ErrActionSequence, e.frames.Size()-1, f.kind, f.slot)
	}
	v, _ := e.frames.Pop()
	root := v.(*frame)
	if root.kind == expressionFrame {
		return e.resolve(root)
	}
	return e.nodes.FinishNode(root.rule, root.choice, root.slots, start, root.end)
}
