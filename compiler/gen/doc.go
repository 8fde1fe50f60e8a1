// Package gen compiles record class declarations into classes whose
// initializer, equality, ordering, hash, representation and plain-form
// conversion are built once per class, as tables of field closures.
//
// # Architecture
//
// Compilation follows this flow:
//
//	Declaration (attrs.Interface + field builders)
//	        ↓
//	   load.Load, load.Linearize (bases in C3 order)
//	        ↓
//	   load.Resolve (merged, validated load.Schema)
//	        ↓
//	   Class (accessor table + method tables)
//	        ↓
//	   Instance (slots or per-instance map)
//
// # Usage
//
//	type Point struct{ attrs.Schema }
//
//	func (Point) Fields() []attrs.Field {
//		return []attrs.Field{
//			field.Int("x"),
//			field.Int("y").Default(0),
//		}
//	}
//
//	var PointClass = gen.MustCompile(Point{})
//
//	p, err := PointClass.New(1)
//	fmt.Println(p) // Point(x=1, y=0)
//
// # Forward References
//
// Nested fields name their class, which may be compiled later. The
// reference is resolved on first use by FromPlain, after each Compile
// when possible, or explicitly by Registry.Finalize.
//
// # Error Handling
//
// Compile reports SchemaConflictErrors; the initializer reports
// ConstructionErrors and ValidationErrors; Set reports
// ImmutabilityErrors and AttributeErrors. See the attrs package for
// the taxonomy.
package gen
