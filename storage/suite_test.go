package storage

import (
	"io/ioutil"
	"os"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

// tempfile returns a path for a file that doesn't exist yet.
func tempfile(prefix string) string {
	f, err := ioutil.TempFile("", prefix)
	if err != nil {
		panic(err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		panic(err)
	}
	if err := os.Remove(name); err != nil {
		panic(err)
	}
	return name
}
