// anbarctl opera el inventario desde la terminal sobre el mismo almacenamiento que la API.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, s := newRootCmd(openFromConfig)
	err := root.Execute()
	if cerr := s.shutdown(); cerr != nil {
		fmt.Fprintln(stderr, "cerrar almacenamiento:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
