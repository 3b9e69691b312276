// Package fixture loads route files and compiles them into registry handlers.
//
// A fixture is YAML (or JSON, which YAML accepts):
//
//	routes:
//	  - name: get user
//	    method: GET
//	    url: /users/{{id}}
//	    status: 200
//	    headers:
//	      Content-Type: application/json
//	    json:
//	      id: "{{id}}"
//	      agent: "{{header.user-agent}}"
//	  - method: POST
//	    pattern: ^/orders/(?P<order>\d+)$
//	    timeout: true
//
// A url containing {{name}} segments matches any value in that segment and
// captures it under name. Bodies may reference captured params, {{query.x}},
// {{header.x}}, {{body.path}} (a gjson path into the request body),
// {{env.NAME}} and builtins such as {{$uuid()}}.
//
// timeout accepts true (the canonical short timeout), false, a duration
// string such as "250ms" or an integer number of milliseconds.
package fixture
