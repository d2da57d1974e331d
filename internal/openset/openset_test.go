package openset

import (
	"testing"

	"go.viam.com/test"
)

func drain(s *Set) []int {
	var order []int
	for s.Len() > 0 {
		order = append(order, s.Pop())
	}
	return order
}

func TestPopOrder(t *testing.T) {
	var s Set
	s.Push(0, 3)
	s.Push(1, 1)
	s.Push(2, 2)
	s.Push(3, 1)
	s.Push(4, 2)

	test.That(t, s.Len(), test.ShouldEqual, 5)
	test.That(t, drain(&s), test.ShouldResemble, []int{1, 3, 2, 4, 0})
	test.That(t, s.Len(), test.ShouldEqual, 0)
}

func TestUpdate(t *testing.T) {
	var s Set
	s.Push(0, 1)
	s.Push(1, 5)
	s.Push(2, 5)
	s.Push(3, 4)

	// 2 moves ahead of 3 but stays behind 0, which was pushed earlier with the same f
	test.That(t, s.Update(2, 1), test.ShouldBeTrue)
	test.That(t, s.Update(1, 0.5), test.ShouldBeTrue)
	test.That(t, drain(&s), test.ShouldResemble, []int{1, 0, 2, 3})
}

func TestUpdateRaisesPriority(t *testing.T) {
	var s Set
	s.Push(0, 1)
	s.Push(1, 2)
	test.That(t, s.Update(0, 3), test.ShouldBeTrue)
	test.That(t, drain(&s), test.ShouldResemble, []int{1, 0})
}

func TestContains(t *testing.T) {
	var s Set
	test.That(t, s.Contains(0), test.ShouldBeFalse)
	test.That(t, s.Update(0, 1), test.ShouldBeFalse)

	s.Push(2, 1)
	test.That(t, s.Contains(2), test.ShouldBeTrue)
	test.That(t, s.Contains(1), test.ShouldBeFalse)
	test.That(t, s.Contains(-1), test.ShouldBeFalse)

	test.That(t, s.Pop(), test.ShouldEqual, 2)
	test.That(t, s.Contains(2), test.ShouldBeFalse)
	test.That(t, s.Update(2, 0), test.ShouldBeFalse)
}
