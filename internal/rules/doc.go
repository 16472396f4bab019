// Package rules loads declarative fixers from YAML files.
//
// A rule file holds a list of rules, either under a "fixers" key or as a
// bare sequence:
//
//	fixers:
//	  - name: assert_equals
//	    pattern: "power< obj=any trailer< '.' 'assertEquals' > trailer< '(' args=any* ')' > >"
//	    replace: "$obj.assertEqual($args)"
//
// The replacement is a Python expression in which $name stands for the
// nodes bound to capture name.
package rules
