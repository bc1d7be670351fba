// Package exiftool wraps the exiftool command line for metadata transplants.
//
// A transplant stages the encoded variant as a hidden sibling of the original
// (same directory, so the caller's final rename is atomic), copies every tag
// from the original onto it, and clears the width/height tags that would
// otherwise describe the superseded resolution. Both invocations are checked
// and the sequence stops at the first failure; failed temp files are kept on
// disk for inspection.
package exiftool
