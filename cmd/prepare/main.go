package main

import (
	"flag"
	"log"

	areacodes "github.com/paulstuart/go-areacodes"
)

var (
	jsonFile = areacodes.AreaCodeJSONFile
	gobFile  = areacodes.AreaCodeGOBFile
)

func main() {
	flag.StringVar(&jsonFile, "json", jsonFile, "GeoJSON area code boundaries")
	flag.StringVar(&gobFile, "gob", gobFile, "GOB snapshot to write")
	flag.Parse()

	err := areacodes.ProcessJSONData(jsonFile, gobFile)
	if err != nil {
		log.Fatalf("can't prepare %q: %v", jsonFile, err)
	}
}
