// Package workspace finds and reads script sources on disk and watches them
// for changes.
//
// A Loader applies the compiler section of the configuration: accepted
// extensions, the size limit, hidden-file skipping and symlink following.
// Every failure is a *LoadError that wraps the cause, so callers can test
// for fs.ErrNotExist, ErrTooLarge, ErrNotRegular or ErrInvalidUTF8 with
// errors.Is.
//
// A Watcher uses fsnotify on every directory below its roots and reports
// batches of changed script files once writes have been quiet for the
// debounce interval.
package workspace
