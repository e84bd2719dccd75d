// Defines the deployment parameter contract for provisioning.
//
// Each environment is described by one YAML file of named values: the
// image reference to deploy, identifiers of secrets held in the external
// secret store, the ordered signer configurations, and telemetry and auth
// endpoints. forge never computes these values and never resolves a
// secret reference; operators author the files and the provisioning
// layer consumes them read-only.
//
// signer_configs order is protocol identity. A signer's position in the
// list is its index in the signing protocol, so reordering entries
// changes which participant holds which key share. Loading preserves
// file order exactly.
package params
