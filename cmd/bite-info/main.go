// bite-info prints the header geometry of game texture and material files.
//
// Usage:
//
//	bite-info [-mips] file.dds [file.vtf ...]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/snake-biscuits/bite"
)

var listMips = flag.Bool("mips", false, "list every mip level's dimensions and byte size")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-mips] file [file ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range flag.Args() {
		if err := describe(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func describe(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".vmt":
		material, err := bite.ParseVMT(data)
		if err != nil {
			return err
		}
		printMaterial(path, &material.Material)
		return nil
	case ".matl", ".json":
		material, err := bite.ParseMatl(data)
		if err != nil {
			return err
		}
		printMaterial(path, &material.Material)
		return nil
	}

	texture, err := parseTexture(path, data)
	if err != nil {
		return err
	}
	printTexture(path, texture)
	return nil
}

func parseTexture(path string, data []byte) (bite.Texture, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dds":
		return bite.ParseDDS(data)
	case ".edds":
		return bite.ParseEDDS(data)
	case ".vtf":
		return bite.ParseVTF(data)
	case ".pvr":
		return bite.ParsePVR(data)
	case ".vms":
		return bite.ParseVMS(data)
	}
	return nil, fmt.Errorf("unrecognised extension %q", filepath.Ext(path))
}

func printTexture(path string, texture bite.Texture) {
	width, height := texture.Size()
	fmt.Printf("%s: %dx%d %s, %d mips, %d frames",
		path, width, height, texture.FormatName(), texture.MipCount(), texture.FrameCount())
	switch {
	case texture.IsCubemap():
		fmt.Print(", cubemap")
	case texture.IsArray():
		fmt.Print(", array")
	case texture.IsVolume():
		fmt.Print(", volume")
	}
	fmt.Println()

	if !*listMips {
		return
	}
	index := texture.DefaultMip()
	for mip := 0; mip < texture.MipCount(); mip++ {
		index.Mip = mip
		w, h, d, err := texture.MipSize(index)
		if err != nil {
			fmt.Printf("  mip %d: %v\n", mip, err)
			continue
		}
		pixels, err := texture.Pixels(index)
		if err != nil {
			fmt.Printf("  mip %d: %v\n", mip, err)
			continue
		}
		if d > 1 {
			fmt.Printf("  mip %d: %dx%dx%d, %d bytes per slice\n", mip, w, h, d, len(pixels))
		} else {
			fmt.Printf("  mip %d: %dx%d, %d bytes\n", mip, w, h, len(pixels))
		}
	}
}

func printMaterial(path string, material *bite.Material) {
	fmt.Printf("%s: shader %q, transparent=%t\n", path, material.Shader, material.Transparent)
	roles := make([]string, 0, len(material.Textures))
	for role := range material.Textures {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Printf("  %s: %s\n", role, material.Textures[role])
	}
}
