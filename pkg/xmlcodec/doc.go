/*
Package xmlcodec converts a project snapshot to and from its XML document.

The document has two layers. The core layer (use_case, main_flow, phrase,
alternative_flow, flow) is plain use-case vocabulary any tool can read. The
extension layer lives in the urn:umlweb:v1 namespace and carries what only
this editor needs: actors, actor/use-case links, use-case associations,
canvas layout and flow metadata.

	<root xmlns:ext="urn:umlweb:v1">
	  <use_case id="UC1">
	    Checkout
	    <main_flow>
	      <phrase id="P1">Open cart</phrase>
	    </main_flow>
	    <alternative_flow id="AF1" ext:parent_phrase_id="P1" ext:kind="exception">
	      Empty cart
	      <flow id="AF1-1">Show message</flow>
	    </alternative_flow>
	  </use_case>

	  <ext:actors>
	    <ext:actor id="A1" name="Customer" type="person"/>
	  </ext:actors>

	  <ext:meta exportedBy="uml-web" version="1.0"/>
	</root>

A compat export (Options.CompatOnly) writes the core layer only.

Import is namespace-aware and permissive. Extension elements are matched by
namespace URI whatever their prefix, missing ids are synthesized from
position, and incomplete rows are dropped instead of failing the document.
Only malformed XML is rejected, with domain.ErrInvalidDocument.
*/
package xmlcodec
