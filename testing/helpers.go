// Package testing provides shared schemas and fixtures for dyncodec tests.
package testing

import (
	"fmt"

	"github.com/zoobzio/dyncodec"
)

// Entry is decoded beneath a captor. Receiver falls back to the captured "captor".
type Entry struct {
	Required string
	Receiver string
}

// Captured holds an optional captor value visible to every entry.
type Captured struct {
	Captor  *string
	Entries []Entry
}

// EntryCodec decodes an Entry, resolving a missing receiver from the nearest captor.
var EntryCodec = dyncodec.NewStructBuilder[Entry]().
	Named("Entry").
	Fields(
		dyncodec.Field("required", dyncodec.String,
			func(e Entry) string { return e.Required },
			func(e *Entry, v string) { e.Required = v }),
		dyncodec.DefaultTryField("receiver", dyncodec.String, dyncodec.Receive("captor", dyncodec.String),
			func(e Entry) string { return e.Receiver },
			func(e *Entry, v string) { e.Receiver = v }),
	).
	MustBuild()

// CapturedCodec exposes its "captor" key to the entries it contains.
var CapturedCodec = dyncodec.AsCodec(dyncodec.Capture[Captured](
	dyncodec.NewStructBuilder[Captured]().
		Named("Captured").
		Fields(
			dyncodec.NullableField("captor", dyncodec.String,
				func(c Captured) *string { return c.Captor },
				func(c *Captured, v *string) { c.Captor = v }),
			dyncodec.Field("entries", dyncodec.ListOf[Entry](EntryCodec),
				func(c Captured) []Entry { return c.Entries },
				func(c *Captured, v []Entry) { c.Entries = v }),
		).
		MustBuild(),
	"captor",
))

// Animal is a polymorphic value dispatched on its "type" key.
type Animal interface {
	Species() string
}

// Bunny is an Animal.
type Bunny struct {
	Name string
	Hops int
}

// Species implements Animal.
func (Bunny) Species() string { return "bunny" }

// Dog is an Animal.
type Dog struct {
	Name string
	Good bool
}

// Species implements Animal.
func (Dog) Species() string { return "dog" }

var bunnySchema = dyncodec.NewBuilder(
	func() *Bunny { return &Bunny{} },
	func(b *Bunny) (Animal, error) { return *b, nil },
	func(a Animal) Bunny { return a.(Bunny) },
).Named("Bunny").Fields(
	dyncodec.Field("name", dyncodec.String,
		func(b Bunny) string { return b.Name },
		func(b *Bunny, v string) { b.Name = v }),
	dyncodec.DefaultedField("hops", dyncodec.Int, 1,
		func(b Bunny) int { return b.Hops },
		func(b *Bunny, v int) { b.Hops = v }),
).MustBuild()

var dogSchema = dyncodec.NewBuilder(
	func() *Dog { return &Dog{} },
	func(d *Dog) (Animal, error) { return *d, nil },
	func(a Animal) Dog { return a.(Dog) },
).Named("Dog").Fields(
	dyncodec.Field("name", dyncodec.String,
		func(d Dog) string { return d.Name },
		func(d *Dog, v string) { d.Name = v }),
	dyncodec.DefaultedField("good", dyncodec.Bool, true,
		func(d Dog) bool { return d.Good },
		func(d *Dog, v bool) { d.Good = v }),
).MustBuild()

// AnimalCodec dispatches on "type" between bunnies and dogs.
var AnimalCodec = dyncodec.Dispatch("type",
	func(a Animal) (string, error) {
		switch a.(type) {
		case Bunny, Dog:
			return a.Species(), nil
		}
		return "", fmt.Errorf("unsupported animal %T", a)
	},
	map[string]dyncodec.MapCodec[Animal]{
		"bunny": bunnySchema,
		"dog":   dogSchema,
	},
)

// Burrow holds animals that are bunnies unless they say otherwise.
type Burrow struct {
	Animals []Animal
}

// BurrowCodec suggests "bunny" for every animal without a type.
var BurrowCodec = dyncodec.AsCodec(dyncodec.SuggestType[Burrow](
	dyncodec.NewStructBuilder[Burrow]().Named("Burrow").Fields(
		dyncodec.Field("animals", dyncodec.ListOf[Animal](AnimalCodec),
			func(b Burrow) []Animal { return b.Animals },
			func(b *Burrow, v []Animal) { b.Animals = v }),
	).MustBuild(),
	AnimalCodec, "bunny",
))

// Zoo nests burrows and names its own default species.
type Zoo struct {
	DefaultType *string
	Animals     []Animal
	Burrows     []Burrow
}

// ZooCodec suggests the species named by "default_type" to everything beneath it.
var ZooCodec = dyncodec.AsCodec(dyncodec.SuggestTypeFrom[Zoo](
	dyncodec.NewStructBuilder[Zoo]().Named("Zoo").Fields(
		dyncodec.NullableField("default_type", dyncodec.String,
			func(z Zoo) *string { return z.DefaultType },
			func(z *Zoo, v *string) { z.DefaultType = v }),
		dyncodec.DefaultGetField("animals", dyncodec.ListOf[Animal](AnimalCodec),
			func() []Animal { return []Animal{} },
			func(z Zoo) []Animal { return z.Animals },
			func(z *Zoo, v []Animal) { z.Animals = v }),
		dyncodec.DefaultGetField("burrows", dyncodec.ListOf(BurrowCodec),
			func() []Burrow { return []Burrow{} },
			func(z Zoo) []Burrow { return z.Burrows },
			func(z *Zoo, v []Burrow) { z.Burrows = v }),
	).MustBuild(),
	AnimalCodec, dyncodec.FieldOf("default_type", dyncodec.String),
))

// Node is a recursive tree.
type Node struct {
	Value    int
	Children []Node
}

// TreeCodec decodes trees of any depth.
var TreeCodec dyncodec.Codec[Node]

func init() {
	TreeCodec = dyncodec.NewStructBuilder[Node]().Named("Node").Fields(
		dyncodec.Field("value", dyncodec.Int,
			func(n Node) int { return n.Value },
			func(n *Node, v int) { n.Value = v }),
		dyncodec.OptionalField("children",
			dyncodec.ListOf(dyncodec.Lazy(func() dyncodec.Codec[Node] { return TreeCodec })),
			func(n Node) dyncodec.Option[[]Node] {
				if len(n.Children) == 0 {
					return dyncodec.None[[]Node]()
				}
				return dyncodec.Some(n.Children)
			},
			func(n *Node, v dyncodec.Option[[]Node]) { n.Children = v.OrElse(nil) }),
	).MustBuild()
}

// Link is a singly linked list whose "next" field refers back to its own codec.
type Link struct {
	Value string
	Next  *Link
}

// LinkCodec decodes lists through a self-referencing field.
var LinkCodec = dyncodec.NewStructBuilder[Link]().Named("Link").Fields(
	dyncodec.Field("value", dyncodec.String,
		func(l Link) string { return l.Value },
		func(l *Link, v string) { l.Value = v }),
	dyncodec.NullableField[*Link, Link, Link]("next", nil,
		func(l Link) *Link { return l.Next },
		func(l *Link, v *Link) { l.Next = v }),
).MustBuild()

// Meta is flattened into the record that embeds it.
type Meta struct {
	Created string
	Version int
}

// MetaCodec reads Meta from the "created" and "version" keys of its parent.
var MetaCodec = dyncodec.Record2(
	dyncodec.ForGetter(dyncodec.FieldOf("created", dyncodec.String), func(m Meta) string { return m.Created }),
	dyncodec.ForGetter(dyncodec.DefaultedFieldOf("version", dyncodec.Int, 1), func(m Meta) int { return m.Version }),
	func(created string, version int) Meta { return Meta{Created: created, Version: version} },
)

// Profile exercises every field policy.
type Profile struct {
	Name     string
	Nickname dyncodec.Option[string]
	Age      int
	Tags     []string
	Score    float64
	Home     *string
	Meta     Meta
}

// ProfileCodec decodes a Profile with Meta flattened into the same map.
var ProfileCodec = dyncodec.NewStructBuilder[Profile]().Named("Profile").Fields(
	dyncodec.Field("name", dyncodec.String,
		func(p Profile) string { return p.Name },
		func(p *Profile, v string) { p.Name = v }),
	dyncodec.OptionalField("nickname", dyncodec.String,
		func(p Profile) dyncodec.Option[string] { return p.Nickname },
		func(p *Profile, v dyncodec.Option[string]) { p.Nickname = v }),
	dyncodec.DefaultedField("age", dyncodec.Int, 18,
		func(p Profile) int { return p.Age },
		func(p *Profile, v int) { p.Age = v }),
	dyncodec.DefaultGetField("tags", dyncodec.SetOf(dyncodec.String),
		func() []string { return []string{} },
		func(p Profile) []string { return p.Tags },
		func(p *Profile, v []string) { p.Tags = v }),
	dyncodec.DefaultedField("score", dyncodec.Float64, 0.5,
		func(p Profile) float64 { return p.Score },
		func(p *Profile, v float64) { p.Score = v }),
	dyncodec.NullableField("home", dyncodec.String,
		func(p Profile) *string { return p.Home },
		func(p *Profile, v *string) { p.Home = v }),
	dyncodec.ImplicitField[*Profile, Profile, Meta]("meta", MetaCodec,
		func(p Profile) Meta { return p.Meta },
		func(p *Profile, v Meta) { p.Meta = v }),
).MustBuild()

// SampleProfile returns a fully populated Profile.
func SampleProfile() Profile {
	home := "Lisbon"
	return Profile{
		Name:     "Ada",
		Nickname: dyncodec.Some("ada"),
		Age:      36,
		Tags:     []string{"math", "engines"},
		Score:    0.75,
		Home:     &home,
		Meta:     Meta{Created: "2024-01-02", Version: 3},
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
