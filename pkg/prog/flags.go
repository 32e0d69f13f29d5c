package prog

import "flag"

// FlagSet wraps a [flag.FlagSet]. Flags shared by several subprograms are
// registered through its methods so that registering them twice is safe.
type FlagSet struct {
	*flag.FlagSet
	json    *bool
	workers *int
}

// JSON returns a pointer to the value of -json.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"show output in JSON; useful with -buildinfo and when scoring")
		fs.json = &json
	}
	return fs.json
}

// Workers returns a pointer to the value of -workers.
func (fs *FlagSet) Workers() *int {
	if fs.workers == nil {
		var workers int
		fs.IntVar(&workers, "workers", 0,
			"number of candidates scored concurrently; 0 means one per CPU")
		fs.workers = &workers
	}
	return fs.workers
}
