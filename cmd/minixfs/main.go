// Command minixfs is a CLI for inspecting and lightly mutating a Minix 3
// disk image. Grounded on teacher's cmd/sqfs/main.go: a flat
// os.Args[1]-switch over subcommands, no cobra/viper -- this module
// follows that lean choice directly rather than pulling in a CLI
// framework for a five-subcommand tool.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/majestrate/minixfs"
)

const usage = `minixfs - Minix 3 filesystem CLI tool

Usage:
  minixfs ls    <image> [path]           List regular files in the image root (path, if given, must be ".")
  minixfs cat   <image> <path>           Display the contents of a file in the image
  minixfs info  <image>                  Display information about the image's superblock
  minixfs touch <image> <cwd> <name>     Create an empty file named <name> under <cwd>
  minixfs rm    <image> <path>           Delete a file from the image
  minixfs help                           Show this help message
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "ls":
		if len(os.Args) < 3 {
			err = fmt.Errorf("missing image path")
			break
		}
		p := "."
		if len(os.Args) > 3 {
			p = os.Args[3]
		}
		err = listFiles(os.Args[2], p)

	case "cat":
		if len(os.Args) < 4 {
			err = fmt.Errorf("missing image path or file path")
			break
		}
		err = catFile(os.Args[2], os.Args[3])

	case "info":
		if len(os.Args) < 3 {
			err = fmt.Errorf("missing image path")
			break
		}
		err = showInfo(os.Args[2])

	case "touch":
		if len(os.Args) < 5 {
			err = fmt.Errorf("missing image path, cwd or name")
			break
		}
		err = touchFile(os.Args[2], os.Args[3], os.Args[4])

	case "rm":
		if len(os.Args) < 4 {
			err = fmt.Errorf("missing image path or file path")
			break
		}
		err = rmFile(os.Args[2], os.Args[3])

	case "help":
		fmt.Print(usage)
		return

	default:
		fmt.Printf("Error: unknown command %q\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func openImage(imagePath string) (*minixfs.FileSystem, *os.File, error) {
	f, err := os.OpenFile(imagePath, os.O_RDWR, 0)
	if err != nil {
		f, err = os.Open(imagePath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", imagePath, err)
	}
	dev := &minixfs.FileDevice{RA: f, WA: f}
	fsys, err := minixfs.Open(dev)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reading superblock: %w", err)
	}
	return fsys, f, nil
}

func listFiles(imagePath, dirPath string) error {
	fsys, f, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := fs.ReadDir(fsys.FS(), dirPath)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dirPath, err)
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", entry.Name(), err)
			continue
		}
		printFileInfo(entry.Name(), info)
	}
	return nil
}

func printFileInfo(name string, info fs.FileInfo) {
	typeChar := "-"
	if info.IsDir() {
		typeChar = "d"
	}
	mode := info.Mode().String()
	fmt.Printf("%s%s %8d %s %s\n", typeChar, mode[1:], info.Size(), info.ModTime().Format("Jan 02 15:04"), name)
}

func catFile(imagePath, filePath string) error {
	fsys, f, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := fs.ReadFile(fsys.FS(), strings.TrimPrefix(filePath, "/"))
	if err != nil {
		return fmt.Errorf("reading %q: %w", filePath, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func showInfo(imagePath string) error {
	fsys, f, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Println("Minix 3 Filesystem Information")
	fmt.Println("===============================")
	fmt.Println(fsys.ShowFSInfo())

	paths := fsys.ShowAllFilePaths()
	fmt.Printf("\nCached regular files: %d\n", len(paths))
	for _, p := range paths {
		fmt.Println(" ", p)
	}
	return nil
}

func touchFile(imagePath, cwd, name string) error {
	fsys, f, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	ino, err := fsys.Create(cwd, name)
	if err != nil {
		return fmt.Errorf("creating %q in %q: %w", name, cwd, err)
	}
	fmt.Printf("created inode %d at %s\n", ino.Num, time.Now().Format(time.RFC3339))
	return nil
}

func rmFile(imagePath, filePath string) error {
	fsys, f, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fsys.Delete(filePath); err != nil {
		return fmt.Errorf("deleting %q: %w", filePath, err)
	}
	return nil
}
