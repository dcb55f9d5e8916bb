// Package model holds the passive entities of a mooring network and the
// constraint-vector layout the solver iterates on.
//
// A [Model] is assembled from three entity kinds:
//
//   - [Node]: fixed anchor points, prescribed vessel attachment points, and
//     free "connect" junctions whose positions are solved for
//   - [LineType]: immutable material templates shared by reference
//   - [Line]: elastic catenary segments joining an anchor node to a fairlead
//     node, carrying the (H, V) fairlead tension state
//
// The constraint vector is the concatenation of every free node's active
// position components (registration then axis order) followed by each line's
// (H, V) pair in registration order. The layout is fixed by [Model.Validate]
// and never reordered afterwards.
package model
