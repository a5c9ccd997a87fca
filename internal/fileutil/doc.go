// Package fileutil holds small filesystem helpers shared by the converter.
package fileutil
