package html

// CSRFCookieName must match the cookie the server middleware issues.
const CSRFCookieName = "X-CSRF-Token"

// CSRFFormScript adds a hidden _csrf field to every POST form, copied from the
// CSRF cookie. Multipart forms need it too: the middleware reads FormValue.
func CSRFFormScript() string {
	return `<script>
(function () {
  var match = document.cookie.match(/(?:^|;\s*)` + CSRFCookieName + `=([^;]*)/);
  if (!match) return;
  var token = decodeURIComponent(match[1]);
  document.querySelectorAll("form[method='post'], form[method='POST']").forEach(function (form) {
    if (form.querySelector("input[name='_csrf']")) return;
    var input = document.createElement("input");
    input.type = "hidden";
    input.name = "_csrf";
    input.value = token;
    form.appendChild(input);
  });
})();
</script>`
}
