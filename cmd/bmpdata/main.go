// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Command bmpdata extracts and rebuilds BMPDATA.BIN image archives.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	bmpdata "github.com/Etokapa/DuoPrincess-English-Translation-Patch"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	_ = flag.Set("logtostderr", "true")
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "extract":
		err = runExtract(args[1:])
	case "repack":
		err = runRepack(args[1:])
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Exitf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  bmpdata extract [-list] ARCHIVE OUTDIR")
	fmt.Fprintln(os.Stderr, "  bmpdata repack [-template ARCHIVE] [-strict] INPUTDIR OUTPUT")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Global flags:")
	flag.PrintDefaults()
}

// runExtract lists an archive's contents and, unless -list is given,
// writes every decompressed entry under the output directory.
func runExtract(args []string) error {
	fset := flag.NewFlagSet("extract", flag.ExitOnError)
	listOnly := fset.Bool("list", false, "list contents without extracting")
	fset.Parse(args)
	if fset.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	binPath, outDir := fset.Arg(0), fset.Arg(1)

	archive, err := bmpdata.Open(binPath)
	if err != nil {
		return err
	}
	entries := archive.Entries()
	klog.V(1).Infof("%s: %d entries", binPath, len(entries))

	var files [][]byte
	if !*listOnly {
		if files, err = archive.ReadAll(); err != nil {
			return err
		}
	}

	fmt.Printf("%3s %-30s %8s %2s %8s %2s %10s\n", "#", "Name", "Comp", "->", "Hdr/Size", "@", "Offset")
	fmt.Println(strings.Repeat("-", 70))

	for i, e := range entries {
		hdr := fmt.Sprintf("%X", uint32(e.Fmt1)<<16|uint32(e.Fmt2))
		if !*listOnly {
			hdr = headerPeek(e, files[i])

			outPath := filepath.Join(outDir, filepath.FromSlash(e.Name))
			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := os.WriteFile(outPath, files[i], 0644); err != nil {
				return fmt.Errorf("write %s: %w", e.Name, err)
			}
		}
		fmt.Printf("%3d %-30s %8X -> %8s @ 0x%08X\n", i+1, e.Name, e.CompressedSize, hdr, e.RelativeOffset)
	}
	return nil
}

// headerPeek summarizes a decompressed payload for the listing: the
// embedded file size for BMPs, the width/height pair for TGAs, and the
// TOC format words for anything else.
func headerPeek(e bmpdata.Entry, data []byte) string {
	lower := strings.ToLower(e.Name)
	switch {
	case strings.HasSuffix(lower, ".bmp") && len(data) >= 6 && string(data[:2]) == "BM":
		return fmt.Sprintf("%X", binary.LittleEndian.Uint32(data[2:6]))
	case strings.HasSuffix(lower, ".tga") && len(data) >= 16:
		w := binary.LittleEndian.Uint16(data[12:14])
		h := binary.LittleEndian.Uint16(data[14:16])
		return fmt.Sprintf("%X", uint32(w)<<16|uint32(h))
	default:
		return fmt.Sprintf("%X", uint32(e.Fmt1)<<16|uint32(e.Fmt2))
	}
}

// runRepack packs a directory tree into a new archive, optionally
// matching the layout of an existing one.
func runRepack(args []string) error {
	fset := flag.NewFlagSet("repack", flag.ExitOnError)
	templatePath := fset.String("template", "", "existing archive to copy entry order and format words from")
	strict := fset.Bool("strict", false, "require every template entry to be present in the input directory")
	fset.Parse(args)
	if fset.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	inputDir, outPath := fset.Arg(0), fset.Arg(1)

	files, err := gatherInputs(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to pack in %s", inputDir)
	}

	var tmpl bmpdata.Template
	if *templatePath != "" {
		t, err := bmpdata.Open(*templatePath)
		if err != nil {
			return fmt.Errorf("open template: %w", err)
		}
		klog.V(1).Infof("template %s supplies %d entries", *templatePath, len(t.Entries()))
		tmpl = t
	}

	archive, err := bmpdata.CreateWithTemplate(outPath, tmpl, *strict)
	if err != nil {
		return err
	}
	for _, f := range files {
		klog.V(2).Infof("queued %s (%d bytes)", f.name, len(f.data))
		if err := archive.Add(f.name, f.data); err != nil {
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return err
	}

	packed, err := bmpdata.Open(outPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return err
	}
	headerLen := int64(bmpdata.CountSize + bmpdata.EntrySize*len(packed.Entries()))
	dataLen := info.Size() - headerLen

	fmt.Printf("Packed %d file(s) into: %s\n", len(packed.Entries()), outPath)
	fmt.Printf("Header size: %d bytes, Data size: %d bytes, Total: %d bytes\n", headerLen, dataLen, info.Size())
	return nil
}

// inputFile is one gathered file, named by its slash-separated path
// relative to the input directory.
type inputFile struct {
	name string
	data []byte
}

// gatherInputs reads every file under root up front so a later failure
// cannot leave a half-written archive behind.
func gatherInputs(root string) ([]inputFile, error) {
	var files []inputFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, inputFile{name: filepath.ToSlash(rel), data: data})
		return nil
	})
	return files, err
}
