// Command holidayfinder ingests a hotel catalog and offer stream into a
// Snapshot, then serves best-per-hotel and hotel-detail queries over HTTP.
package main

func main() {
	Execute()
}
