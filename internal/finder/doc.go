// Package finder implements duplicate detection over a single directory tree.
//
// The pipeline runs in four stages:
//
//  1. enumerate candidates (fileutil.Walk)
//  2. stat them and drop files below the minimum size (FilterBySize)
//  3. group by exact size, pruning singletons (GroupBySize)
//  4. optionally hash each size group and regroup by digest (Verifier)
//
// Two files are reported together in content mode only when they share both
// size and SHA-256 digest. A shared digest is taken as equality; no byte
// comparison follows.
package finder
