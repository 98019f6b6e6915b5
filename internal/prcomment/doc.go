// Package prcomment publishes comparison results as pull request comments.
//
// A comment carries a hidden marker naming the compared pair so later runs
// edit it in place, and a content hash so unchanged results are not posted
// again.
package prcomment
