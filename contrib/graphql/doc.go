// Package graphql renders compiled class schemas as a GraphQL schema
// definition.
//
// Every class becomes an object type holding its serialized fields under
// their external names, and an input type holding its initializer
// arguments:
//
//	sdl, err := graphql.SDL(point.Schema(), line.Schema())
//
// Given the classes
//
//	Point: x int, y int = 0
//	Line:  start Point, end Point
//
// the output is
//
//	type Point {
//	  x: Int!
//	  y: Int!
//	}
//	input PointInput {
//	  x: Int!
//	  y: Int
//	}
//	type Line {
//	  start: Point!
//	  end: Point!
//	}
//	input LineInput {
//	  start: PointInput!
//	  end: PointInput!
//	}
//
// Nested references must name classes passed in the same call; the
// generated document is validated before it is returned.
//
// # Scalars
//
// Field types map to the built-in scalars where one exists. Times, UUIDs,
// bytes, maps and untyped values use the custom scalars Time, UUID,
// Bytes, Map and Any, declared in the document when used. WithScalar
// changes the mapping:
//
//	g := graphql.NewGenerator(graphql.WithScalar(field.TypeUUID, "ID"))
package graphql
