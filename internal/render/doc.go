// Package render turns plugin state into SwiftBar output: the line-based
// menu protocol plus the PNG status icon and sparklines it embeds.
//
// SwiftBar reads one item per line as "text | key=value ...". A line of
// "---" is a separator, each leading "--" nests an item one submenu deeper,
// and in streaming mode "~~~" starts a new frame.
package render
