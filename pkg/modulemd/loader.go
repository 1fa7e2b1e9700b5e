package modulemd

import (
	"io"
	"io/ioutil"
)

// Load reads module documents from r and merges them into idx in strict mode.
//
// It returns the names of the modules touched by this load. When any
// subdocument fails, nothing is merged, no name is returned and the failures
// are handed back for the caller to report.
func Load(r io.Reader, idx *Index) ([]string, []Failure, error) {
	text, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	names, fails := idx.update(string(text), true)
	if len(fails) > 0 {
		return []string{}, fails, nil
	}
	return names, nil, nil
}

// LoadModules is a best effort Load: a stream which cannot be read or
// merged yields an empty list of names. Use Load to get the failures.
//
// The result only holds the modules named by the documents of r, sorted.
// Modules merged by earlier loads are not listed again: use
// Index.ModuleNames for the full content of idx.
func LoadModules(r io.Reader, idx *Index) []string {
	names, fails, err := Load(r, idx)
	if err != nil || len(fails) > 0 {
		return []string{}
	}
	return names
}
