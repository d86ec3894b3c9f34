package class

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtend_NilParentMeansRoot(t *testing.T) {
	c := Extend(nil, Options{Name: "Thing"})

	assert.Same(t, Root, c.Superclass())
	assert.Equal(t, "Thing", c.Name())
	assert.Equal(t, 1, c.Depth())
}

func TestExtend_TemplateFlattensAndShadows(t *testing.T) {
	base := Root.Extend(Options{
		Name:       "Base",
		Properties: Members{"color": "red", "size": int64(1)},
	})
	child := base.Extend(Options{
		Name:       "Child",
		Properties: Members{"color": "blue", "shape": "round"},
	})

	assert.Equal(t, Members{"color": "blue", "size": int64(1), "shape": "round"}, child.Members())
	assert.Equal(t, Members{"color": "blue", "shape": "round"}, child.OwnMembers())
	assert.Equal(t, Members{"color": "red", "size": int64(1)}, base.Members(), "parent untouched")
	assert.Equal(t, []string{"color", "shape", "size"}, child.MemberNames())
}

func TestExtend_SiblingsAreIndependent(t *testing.T) {
	base := Root.Extend(Options{Properties: Members{"greeting": "hello"}})
	left := base.Extend(Options{Properties: Members{"greeting": "hi"}})
	right := base.Extend(Options{Properties: Members{"extra": true}})

	l := left.MustNew()
	r := right.MustNew()

	lv, _ := l.Get("greeting")
	rv, _ := r.Get("greeting")
	assert.Equal(t, "hi", lv)
	assert.Equal(t, "hello", rv)

	_, ok := left.Member("extra")
	assert.False(t, ok, "sibling member leaked")
}

func TestExtend_OptionsMapsAreCopied(t *testing.T) {
	props := Members{"a": 1}
	statics := Members{"s": 1}
	c := Root.Extend(Options{Properties: props, ClassProperties: statics})

	props["a"] = 2
	props["b"] = 3
	statics["s"] = 2

	v, _ := c.Member("a")
	assert.Equal(t, 1, v)
	_, ok := c.Member("b")
	assert.False(t, ok)
	s, _ := c.Static("s")
	assert.Equal(t, 1, s)
}

func TestExtend_ClassProperties(t *testing.T) {
	base := Root.Extend(Options{ClassProperties: Members{"kind": "animal", "legs": 4}})
	bird := base.Extend(Options{ClassProperties: Members{"legs": 2, "wings": 2}})

	assert.Equal(t, Members{"kind": "animal", "legs": 2, "wings": 2}, bird.Statics())
	assert.Equal(t, Members{"kind": "animal", "legs": 4}, base.Statics())
}

func TestClass_CallStatic(t *testing.T) {
	base := Root.Extend(Options{
		Name: "Base",
		ClassProperties: Members{
			"describe": ClassMethod(func(c *Class, args ...any) (any, error) {
				return "class " + c.Name(), nil
			}),
			"count": 3,
		},
	})
	child := base.Extend(Options{Name: "Child"})

	out, err := child.CallStatic("describe")
	require.NoError(t, err)
	assert.Equal(t, "class Child", out, "receiver is the invoking class")

	_, err = child.CallStatic("count")
	assert.True(t, IsNotCallable(err))

	_, err = child.CallStatic("missing")
	assert.True(t, IsMissingMember(err))
}

func TestNew_RunsInitializerWithArgs(t *testing.T) {
	var seen *Class
	point := Root.Extend(Options{
		Name: "Point",
		Initializer: func(self *Object, args ...any) error {
			seen = self.Class()
			self.Set("x", args[0])
			self.Set("y", args[1])
			return nil
		},
	})

	p, err := point.New(3, 4)
	require.NoError(t, err)

	assert.Same(t, point, seen, "class bound before constructor runs")
	x, _ := p.Get("x")
	y, _ := p.Get("y")
	assert.Equal(t, 3, x)
	assert.Equal(t, 4, y)
}

func TestNew_DefaultInitializerForwardsToParent(t *testing.T) {
	var got []any
	base := Root.Extend(Options{
		Initializer: func(self *Object, args ...any) error {
			got = args
			return nil
		},
	})
	mid := base.Extend(Options{})
	leaf := mid.Extend(Options{})

	o, err := leaf.New("a", 2)
	require.NoError(t, err)

	assert.Equal(t, []any{"a", 2}, got)
	assert.Same(t, leaf, o.Class())
}

func TestNew_InitializerError(t *testing.T) {
	boom := errors.New("boom")
	c := Root.Extend(Options{Initializer: func(*Object, ...any) error { return boom }})

	o, err := c.New()
	assert.Nil(t, o)
	assert.ErrorIs(t, err, boom)
	assert.Panics(t, func() { c.MustNew() })
}

func TestInitialize_ChainsToAncestor(t *testing.T) {
	base := Root.Extend(Options{
		Initializer: func(self *Object, args ...any) error {
			self.Set("name", args[0])
			return nil
		},
	})
	var child *Class
	child = base.Extend(Options{
		Initializer: func(self *Object, args ...any) error {
			if err := child.Superclass().Initialize(self, args...); err != nil {
				return err
			}
			self.Set("ready", true)
			return nil
		},
	})

	o := child.MustNew("widget")
	name, _ := o.Get("name")
	ready, _ := o.Get("ready")
	assert.Equal(t, "widget", name)
	assert.Equal(t, true, ready)
}

func TestObject_SetDoesNotLeak(t *testing.T) {
	c := Root.Extend(Options{Properties: Members{"count": 0}})
	a := c.MustNew()
	b := c.MustNew()

	a.Set("count", 5)

	av, _ := a.Get("count")
	bv, _ := b.Get("count")
	tv, _ := c.Member("count")
	assert.Equal(t, 5, av)
	assert.Equal(t, 0, bv)
	assert.Equal(t, 0, tv)

	a.Unset("count")
	av, _ = a.Get("count")
	assert.Equal(t, 0, av)
}

func TestObject_MembersMergesFields(t *testing.T) {
	c := Root.Extend(Options{Properties: Members{"a": 1, "b": 2}})
	o := c.MustNew()
	o.Set("b", 20)
	o.Set("c", 30)

	assert.Equal(t, Members{"a": 1, "b": 20, "c": 30}, o.Members())
	assert.Equal(t, Members{"b": 20, "c": 30}, o.Fields())
	assert.Equal(t, []string{"a", "b", "c"}, o.MemberNames())
}

func TestObject_Call(t *testing.T) {
	c := Root.Extend(Options{
		Name: "Counter",
		Properties: Members{
			"step": 2,
			"next": Method(func(self *Object, args ...any) (any, error) {
				step, _ := self.Get("step")
				return args[0].(int) + step.(int), nil
			}),
			"literal": func(self *Object, args ...any) (any, error) {
				return "ok", nil
			},
		},
	})
	o := c.MustNew()

	out, err := o.Call("next", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, out)

	out, err = o.Call("literal")
	require.NoError(t, err)
	assert.Equal(t, "ok", out, "unnamed func literals are callable")

	_, err = o.Call("step")
	assert.True(t, IsNotCallable(err))

	_, err = o.Call("nope")
	assert.True(t, IsMissingMember(err))
	assert.Contains(t, err.Error(), "class=Counter")
}

func TestIsCallable(t *testing.T) {
	assert.True(t, IsCallable(Method(func(*Object, ...any) (any, error) { return nil, nil })))
	assert.True(t, IsCallable(ClassMethod(func(*Class, ...any) (any, error) { return nil, nil })))
	assert.False(t, IsCallable("text"))
	assert.False(t, IsCallable(Method(nil)))
}
