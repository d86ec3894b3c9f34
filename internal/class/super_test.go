package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speaker(text string) Method {
	return func(self *Object, args ...any) (any, error) {
		return text, nil
	}
}

// abc builds A -> B -> C where B overrides speak and C overrides nothing.
func abc(t *testing.T) (a, b, c *Class) {
	t.Helper()
	a = Root.Extend(Options{Name: "A", Properties: Members{"speak": speaker("A"), "tag": "a"}})
	b = a.Extend(Options{Name: "B", Properties: Members{"speak": speaker("B")}})
	c = b.Extend(Options{Name: "C"})
	return a, b, c
}

func TestAncestry_SuperclassAndInheritsFrom(t *testing.T) {
	a, b, c := abc(t)
	unrelated := Root.Extend(Options{Name: "U"})

	assert.Same(t, b, c.Superclass())
	assert.Same(t, a, b.Superclass())
	assert.Same(t, Root, a.Superclass())
	assert.Nil(t, Root.Superclass())

	assert.True(t, c.InheritsFrom(b))
	assert.True(t, c.InheritsFrom(a))
	assert.True(t, c.InheritsFrom(Root))
	assert.True(t, c.InheritsFrom(c), "reflexive")
	assert.False(t, c.InheritsFrom(unrelated))
	assert.False(t, a.InheritsFrom(c), "ancestry is not symmetric")
	assert.False(t, c.InheritsFrom(nil))
}

func TestAncestry_Ancestors(t *testing.T) {
	a, b, c := abc(t)

	assert.Equal(t, []*Class{c, b, a, Root}, c.Ancestors())
	assert.Equal(t, []*Class{Root}, Root.Ancestors())
	assert.Equal(t, 3, c.Depth())
}

func TestObject_ClassIsExact(t *testing.T) {
	a, b, c := abc(t)
	o := c.MustNew()

	assert.Same(t, c, o.Class())
	assert.NotSame(t, b, o.Class())
	assert.True(t, o.IsInstanceOf(a))
	assert.False(t, a.MustNew().IsInstanceOf(c))
}

func TestParent_GrandparentSeesIntermediateOverride(t *testing.T) {
	a, b, c := abc(t)
	o := c.MustNew()

	viaA, err := o.Parent(a)
	require.NoError(t, err)
	out, err := viaA.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "B", out, "B's override wins over A's original")

	viaB, err := o.Parent(b)
	require.NoError(t, err)
	out, err = viaB.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "B", out)
}

func TestParent_DirectAncestorCall(t *testing.T) {
	a, b, _ := abc(t)
	o := b.MustNew()

	shims, err := o.Parent(a)
	require.NoError(t, err)

	out, err := shims.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "B", out, "receiver's own level is part of the collected range")

	tag, ok := shims.Get("tag")
	assert.True(t, ok)
	assert.Equal(t, "a", tag, "data members pass through")
	assert.Equal(t, []string{"speak", "tag"}, shims.Names())
}

func TestParent_BindsOriginalReceiver(t *testing.T) {
	base := Root.Extend(Options{
		Name: "Base",
		Properties: Members{
			"label": "base",
			"describe": Method(func(self *Object, args ...any) (any, error) {
				v, _ := self.Get("label")
				return "I am " + v.(string), nil
			}),
		},
	})
	child := base.Extend(Options{
		Name: "Child",
		Properties: Members{
			"label": "child",
			"render": Method(func(self *Object, args ...any) (any, error) {
				shims, err := self.Parent(base)
				if err != nil {
					return nil, err
				}
				inner, err := shims.Call("describe")
				if err != nil {
					return nil, err
				}
				return "<" + inner.(string) + ">", nil
			}),
		},
	})

	o := child.MustNew()
	o.Set("label", "instance")

	out, err := o.Call("render")
	require.NoError(t, err)
	assert.Equal(t, "<I am instance>", out)
}

func TestCallAs_ReachesAncestorOriginal(t *testing.T) {
	a, b, c := abc(t)
	var d *Class
	d = c.Extend(Options{
		Name: "D",
		Properties: Members{
			"speak": Method(func(self *Object, args ...any) (any, error) {
				inner, err := self.CallAs(d.Superclass(), "speak")
				if err != nil {
					return nil, err
				}
				return "D+" + inner.(string), nil
			}),
		},
	})
	o := d.MustNew()

	out, err := o.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "D+B", out)

	out, err = o.CallAs(a, "speak")
	require.NoError(t, err)
	assert.Equal(t, "A", out)

	_, err = b.MustNew().CallAs(d, "speak")
	assert.True(t, IsAncestorNotFound(err))
	_, err = o.CallAs(a, "tag")
	assert.True(t, IsNotCallable(err))
	_, err = o.CallAs(a, "missing")
	assert.True(t, IsMissingMember(err))
}

func TestParent_ShimReadsReceiverState(t *testing.T) {
	a := Root.Extend(Options{
		Name: "A",
		Properties: Members{
			"whoami": Method(func(self *Object, args ...any) (any, error) {
				v, _ := self.Get("id")
				return v, nil
			}),
		},
	})
	b := a.Extend(Options{Name: "B"})
	o := b.MustNew()
	o.Set("id", "obj-7")

	shims, err := o.Parent(a)
	require.NoError(t, err)
	out, err := shims.Call("whoami")
	require.NoError(t, err)
	assert.Equal(t, "obj-7", out)
}

func TestParent_AncestorNotFound(t *testing.T) {
	_, _, c := abc(t)
	unrelated := Root.Extend(Options{Name: "Unrelated"})
	o := c.MustNew()

	shims, err := o.Parent(unrelated)
	assert.Nil(t, shims)
	require.Error(t, err)
	assert.True(t, IsAncestorNotFound(err))
	assert.Contains(t, err.Error(), "Unrelated")

	assert.Panics(t, func() { o.MustParent(unrelated) })
}

func TestParent_DescendantIsNotAncestor(t *testing.T) {
	a, _, c := abc(t)
	o := a.MustNew()

	_, err := o.Parent(c)
	assert.True(t, IsAncestorNotFound(err))
}

func TestParent_NilAncestorIsEmpty(t *testing.T) {
	_, _, c := abc(t)

	shims, err := c.MustNew().Parent(nil)
	require.NoError(t, err)
	assert.Empty(t, shims)
}

func TestParent_RootIncludesEveryLevel(t *testing.T) {
	_, _, c := abc(t)

	shims, err := c.MustNew().Parent(Root)
	require.NoError(t, err)
	out, err := shims.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "B", out)
}

func TestShims_CallErrors(t *testing.T) {
	a, _, _ := abc(t)
	shims, err := a.MustNew().Parent(a)
	require.NoError(t, err)

	_, err = shims.Call("tag")
	assert.True(t, IsNotCallable(err))
	_, err = shims.Call("missing")
	assert.True(t, IsMissingMember(err))
	assert.False(t, shims.Has("missing"))
}

func TestParent_ViewIsFreshPerCall(t *testing.T) {
	a, _, c := abc(t)
	o := c.MustNew()

	first, err := o.Parent(a)
	require.NoError(t, err)
	first["speak"] = "tampered"

	second, err := o.Parent(a)
	require.NoError(t, err)
	out, err := second.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "B", out)
}
