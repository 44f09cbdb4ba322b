/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package descriptor

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/acronis/go-fakesocket/registry"
	"github.com/acronis/go-fakesocket/stream"
)

func Example() {
	reg := registry.New(registry.Options{})
	defer reg.UnregisterAll()

	b, err := FromSource("buffer:9200")
	if err != nil {
		log.Fatal(err)
	}

	// Only the first write succeeds, all further ones are rejected.
	dsn, err := b.WithWrite(1).Register(reg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dsn)

	s, err := reg.Open(dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	n, err := s.Write([]byte("xyz"))
	fmt.Println(n, err)
	n, err = s.Write([]byte("xyz"))
	fmt.Println(n, errors.Is(err, stream.ErrRejected))

	if _, err = s.Seek(0, io.SeekStart); err != nil {
		log.Fatal(err)
	}
	data, err := io.ReadAll(s)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))

	// Output:
	// fake://buffer:9200/?read=-1&read_after=0&read_every=1&write=1&write_after=0&write_every=1
	// 3 <nil>
	// 0 true
	// xyz
}
