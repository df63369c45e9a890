package decode

import (
	"math/big"

	"github.com/eldrevo/hclcore/value"
)

// Dynamic is the built-in value-mode target spec.md §4.E describes:
// "caller asks for a 'dynamic' target; decoder produces a Value
// regardless of whether the input is structural or literal." It
// implements every leaf/sequence/map Visitor so Value(v, &Dynamic{})
// always succeeds and leaves the reconstructed Value in .Result.
type Dynamic struct {
	Result value.Value
}

func (d *Dynamic) VisitNull() error {
	d.Result = value.Null()
	return nil
}

func (d *Dynamic) VisitBool(b bool) error {
	d.Result = value.Bool(b)
	return nil
}

func (d *Dynamic) VisitNumber(n *big.Float) error {
	d.Result = value.NumberFromBigFloat(n)
	return nil
}

func (d *Dynamic) VisitString(s string) error {
	d.Result = value.String(s)
	return nil
}

func (d *Dynamic) VisitSequence(items []value.Value) error {
	d.Result = value.Array(items)
	return nil
}

func (d *Dynamic) VisitMap(obj *value.Object) error {
	d.Result = value.ObjectVal(obj)
	return nil
}
