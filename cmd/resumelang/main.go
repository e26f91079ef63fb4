// resumelang parses, formats and watches resume language documents.
//
// Usage:
//
//	# Print the AST of a document as JSON
//	resumelang parse cv.resume
//
//	# Print it as YAML, resolving imports from another directory
//	resumelang parse cv.resume --format yaml --root ./sections
//
//	# Rewrite a document in canonical form
//	resumelang fmt -w cv.resume
//
//	# Re-parse whenever the document or its imports change
//	resumelang watch cv.resume
package main

func main() {
	Execute()
}
