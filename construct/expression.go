package construct

import (
	"fmt"

	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
)

// item is an operand or an operator within an expression slot.
type item struct {
	operator bool
	node     parsetree.NodeID // operands only
	kind     grammar.OperatorKind
	prec     int
	choice   uint32
	slots    [][]parsetree.NodeID
	start    retrace.Stamp
	end      retrace.Stamp
	flat     int // number of right operands collected by a flat infix operator
}

// folder resolves an expression with an operand stack and an operator stack.
type folder struct {
	e        *Engine
	rule     uint32
	operands []item
	ops      []item
}

// resolve folds the items of an expression frame into a single node.
func (e *Engine) resolve(f *frame) (parsetree.NodeID, error) {
	if len(f.items) == 0 {
		return parsetree.NoNode, fmt.Errorf("%w: empty expression for slot %d", ErrActionSequence, f.slot)
	}
	fo := &folder{e: e, rule: f.rule}
	for _, it := range f.items {
		if err := fo.push(it); err != nil {
			return parsetree.NoNode, err
		}
	}
	for len(fo.ops) > 0 {
		if err := fo.reduce(); err != nil {
			return parsetree.NoNode, err
		}
	}
	if len(fo.operands) != 1 {
		return parsetree.NoNode, fmt.Errorf("%w: expression folds to %d operands", ErrActionSequence, len(fo.operands))
	}
	return fo.operands[0].node, nil
}

// binds is true if the operator on top of the stack takes its operands
// before an incoming operator of precedence prec.
func binds(top item, kind grammar.OperatorKind, prec int) bool {
	if top.prec != prec {
		return top.prec > prec
	}
	return kind != grammar.InfixRight && kind != grammar.PrefixOperator
}

func (fo *folder) push(it item) error {
	if !it.operator {
		fo.operands = append(fo.operands, it)
		return nil
	}
	if it.kind == grammar.PrefixOperator {
		fo.ops = append(fo.ops, it)
		return nil
	}
	for len(fo.ops) > 0 {
		top := &fo.ops[len(fo.ops)-1]
		if it.kind == grammar.InfixFlat && top.kind == grammar.InfixFlat &&
			top.choice == it.choice && top.prec == it.prec {
			top.flat++ // continue the flat operator
			top.end = it.end
			return nil
		}
		if !binds(*top, it.kind, it.prec) {
			break
		}
		if err := fo.reduce(); err != nil {
			return err
		}
	}
	if it.kind == grammar.PostfixOperator {
		fo.ops = append(fo.ops, it)
		return fo.reduce()
	}
	it.flat = 1
	fo.ops = append(fo.ops, it)
	return nil
}

func (fo *folder) popOperands(n int) ([]item, error) {
	if len(fo.operands) < n {
		return nil, fmt.Errorf("%w: operator lacks operands", ErrActionSequence)
	}
	ops := fo.operands[len(fo.operands)-n:]
	fo.operands = fo.operands[:len(fo.operands)-n]
	return append([]item(nil), ops...), nil
}

// reduce applies the operator on top of the operator stack.
func (fo *folder) reduce() error {
	op := fo.ops[len(fo.ops)-1]
	fo.ops = fo.ops[:len(fo.ops)-1]
	left, right, operand := fo.e.schema.OperandSlots(fo.rule)
	var args []item
	var err error
	if op.kind.IsInfix() {
		if args, err = fo.popOperands(op.flat + 1); err != nil {
			return err
		}
		if err = fill(op.slots, left, args[:1]); err != nil {
			return err
		}
		err = fill(op.slots, right, args[1:])
	} else {
		if args, err = fo.popOperands(1); err != nil {
			return err
		}
		err = fill(op.slots, operand, args)
	}
	if err != nil {
		return err
	}
	start, end := op.start, op.end
	for _, a := range args {
		if a.start < start {
			start = a.start
		}
		if a.end > end {
			end = a.end
		}
	}
	id, err := fo.e.nodes.FinishNode(fo.rule, op.choice, op.slots, start, end)
	if err != nil {
		return err
	}
	tracer().Debugf("%s operator %d applied to %d operands", op.kind, op.choice, len(args))
	fo.operands = append(fo.operands, item{node: id, start: start, end: end})
	return nil
}

func fill(slots [][]parsetree.NodeID, slot uint32, args []item) error {
	if slot == grammar.NoRule || int(slot) >= len(slots) {
		return fmt.Errorf("%w: operator has no operand slot %d", ErrActionSequence, slot)
	}
	for _, a := range args {
		slots[slot] = append(slots[slot], a.node)
	}
	return nil
}
