// Package output renders locate reports.
//
// Plain is the tab-separated layout of barleymap: a ">map" line per map,
// "##" section titles, "#" header rows and one row per position (or per
// attached marker or gene). JSON emits the whole report as one document.
package output
