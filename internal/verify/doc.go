// Package verify checks decompositions against concrete data.
//
// A Verifier loads an instance of the original relation into an in-memory
// SQLite database, projects it onto every part of a decomposition and
// joins the projections back with NATURAL JOIN. The decomposition is
// lossless for that instance when the join yields exactly the original
// rows. Instances can come from a document or from GenerateRows, which
// builds rows that satisfy the dependencies.
//
// The package also renders relations as CREATE TABLE statements, which
// the sql output format reuses.
package verify
