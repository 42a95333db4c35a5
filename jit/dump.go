package jit

import (
	"context"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/reusee/cnp/logs"
	"github.com/reusee/cnp/stitcher"
)

// DumpRecord is the CBOR form of a compilation.
type DumpRecord struct {
	Program string            `cbor:"1,keyasint"`
	Source  string            `cbor:"2,keyasint"`
	Arch    string            `cbor:"3,keyasint"`
	Code    []byte            `cbor:"4,keyasint"`
	Listing *stitcher.Listing `cbor:"5,keyasint"`
	Locals  map[string]int32  `cbor:"6,keyasint,omitempty"`
}

// Dump writes <path>.bin with the raw code, suitable for a disassembler,
// and <path>.cbor with the annotated listing.
type Dump func(ctx context.Context, path string, compiled *Compiled) error

var dumpEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

func (Module) Dump(
	logger logs.Logger,
) Dump {
	return func(ctx context.Context, path string, compiled *Compiled) error {
		code := compiled.Exe.Code()

		record := DumpRecord{
			Program: compiled.Program.Name,
			Source:  compiled.Program.Source,
			Arch:    compiled.Arch,
			Code:    code,
			Listing: compiled.Listing,
		}
		if len(compiled.Program.Locals) > 0 {
			record.Locals = make(map[string]int32, len(compiled.Program.Locals))
			for name, value := range compiled.Program.Locals {
				record.Locals[string(rune(name))] = value
			}
		}
		bs, err := dumpEncMode.Marshal(record)
		if err != nil {
			return wrap(err)
		}

		if err := os.WriteFile(path+".bin", code, 0644); err != nil {
			return wrap(logs.WrapSpan(ctx, fmt.Errorf("dump code: %w", err)))
		}
		if err := os.WriteFile(path+".cbor", bs, 0644); err != nil {
			return wrap(logs.WrapSpan(ctx, fmt.Errorf("dump listing: %w", err)))
		}

		logger.InfoContext(ctx, "dumped",
			"path", path,
			"code", len(code),
			"listing", len(bs),
		)
		return nil
	}
}

// LoadDump reads a listing written by Dump.
func LoadDump(path string) (*DumpRecord, error) {
	bs, err := os.ReadFile(path + ".cbor")
	if err != nil {
		return nil, err
	}
	var record DumpRecord
	if err := cbor.Unmarshal(bs, &record); err != nil {
		return nil, fmt.Errorf("decode %s.cbor: %w", path, err)
	}
	return &record, nil
}
